// Package display turns booking values into the strings shown on pages. Every function
// is total: malformed input returns a sentinel instead of an error so a page can still
// render.
package display

import (
	"fmt"
	"strings"

	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/availability"
)

// InvalidDate is returned for dates that cannot be parsed.
const InvalidDate = "Invalid Date"

type Layout string

const (
	LayoutISO     Layout = "iso"     // 2024-06-01
	LayoutShort   Layout = "short"   // Jun 1, 2024
	LayoutLong    Layout = "long"    // Saturday, June 1, 2024
	LayoutNumeric Layout = "numeric" // 06/01/2024
	LayoutWeekday Layout = "weekday" // Sat, Jun 1
)

var goLayouts = map[Layout]string{
	LayoutISO:     "2006-01-02",
	LayoutShort:   "Jan 2, 2006",
	LayoutLong:    "Monday, January 2, 2006",
	LayoutNumeric: "01/02/2006",
	LayoutWeekday: "Mon, Jan 2",
}

// ParseLayout maps a query value to a Layout, defaulting to LayoutShort.
func ParseLayout(raw string) (Layout, bool) {
	l := Layout(strings.ToLower(strings.TrimSpace(raw)))
	if l == "" {
		return LayoutShort, true
	}
	_, ok := goLayouts[l]
	return l, ok
}

// FormatTime converts "14:30" to "2:30 PM". Malformed input yields "".
func FormatTime(hhmm string) string {
	t, err := availability.ParseTimeOfDay(strings.TrimSpace(hhmm))
	if err != nil {
		return ""
	}
	return t.Label()
}

// FormatDate renders a YYYY-MM-DD date in one of the fixed layouts.
func FormatDate(date string, layout Layout) string {
	d, err := availability.ParseDate(strings.TrimSpace(date))
	if err != nil {
		return InvalidDate
	}
	return FormatCalendarDate(d, layout)
}

func FormatCalendarDate(d availability.Date, layout Layout) string {
	goLayout, ok := goLayouts[layout]
	if !ok {
		goLayout = goLayouts[LayoutShort]
	}
	return d.Time(nil).Format(goLayout)
}

// FormatDuration renders hours the way the booking summary does: "1 hour", "1.5 hours".
func FormatDuration(h availability.Hours) string {
	if h == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%g hours", float64(h))
}

// FormatSlotRange renders "2:00 PM – 3:30 PM". A booking running past midnight yields "".
func FormatSlotRange(start string, h availability.Hours) string {
	s, err := availability.ParseTimeOfDay(strings.TrimSpace(start))
	if err != nil {
		return ""
	}
	end, err := availability.EndTime(s, h)
	if err != nil {
		return ""
	}
	return s.Label() + " – " + end.Label()
}
