package display

import (
	"fmt"
	"strings"

	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/availability"
)

// relativeDays is how far from today a date still gets a relative label.
const relativeDays = 7

// RelativeDateLabel describes date relative to today: "Today", "Tomorrow", "Yesterday",
// "In 3 days", "4 days ago", or the short date beyond a week either way.
func RelativeDateLabel(date string, today availability.Date) string {
	d, err := availability.ParseDate(strings.TrimSpace(date))
	if err != nil {
		return InvalidDate
	}
	return RelativeLabel(d, today)
}

func RelativeLabel(d, today availability.Date) string {
	switch diff := today.DaysUntil(d); {
	case diff == 0:
		return "Today"
	case diff == 1:
		return "Tomorrow"
	case diff == -1:
		return "Yesterday"
	case diff > 1 && diff <= relativeDays:
		return fmt.Sprintf("In %d days", diff)
	case diff < -1 && diff >= -relativeDays:
		return fmt.Sprintf("%d days ago", -diff)
	default:
		return FormatCalendarDate(d, LayoutShort)
	}
}
