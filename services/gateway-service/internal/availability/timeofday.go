package availability

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidTime     = errors.New("invalid time of day")
	ErrCrossesMidnight = errors.New("booking would cross midnight")
	ErrInvalidDuration = errors.New("invalid duration")
)

const (
	minutesPerDay = 24 * 60
	// MaxHours is the longest duration any operation accepts.
	MaxHours Hours = 24
	maxMinutes     = math.MaxInt32
)

// TimeOfDay is a wall-clock time on an unspecified day. Bookable values sit on the hour
// or half hour, but any valid HH:MM parses.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay accepts the zero-padded 24-hour form HH:MM only.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' || !isDigits(s[:2]) || !isDigits(s[3:]) {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	if h > 23 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func fromMinutes(total int) TimeOfDay {
	return TimeOfDay{Hour: total / 60, Minute: total % 60}
}

// Minutes since midnight.
func (t TimeOfDay) Minutes() int { return t.Hour*60 + t.Minute }

func (t TimeOfDay) IsHalfHourAligned() bool { return t.Minute == 0 || t.Minute == 30 }

func (t TimeOfDay) Before(other TimeOfDay) bool { return t.Minutes() < other.Minutes() }

// Add returns t+d. Results at or past midnight are rejected rather than wrapped.
func (t TimeOfDay) Add(d Hours) (TimeOfDay, error) {
	if d < 0 {
		return TimeOfDay{}, fmt.Errorf("%w: %v hours", ErrInvalidDuration, float64(d))
	}
	end := t.Minutes() + d.Minutes()
	if end >= minutesPerDay {
		return TimeOfDay{}, fmt.Errorf("%w: %s + %v hours", ErrCrossesMidnight, t, float64(d))
	}
	return fromMinutes(end), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Label renders the 12-hour form used on booking forms, e.g. "2:30 PM".
func (t TimeOfDay) Label() string {
	period := "AM"
	if t.Hour >= 12 {
		period = "PM"
	}
	h := t.Hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, t.Minute, period)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Hours is a booking length in hours; bookable lengths move in half-hour steps.
type Hours float64

// ParseHours accepts plain decimal numbers such as "2" or "1.5" no larger than a day.
// Exponents, hex floats and digit separators are rejected.
func ParseHours(s string) (Hours, error) {
	if !isDecimal(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.Abs(f) > float64(MaxHours) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	return Hours(f), nil
}

// Minutes rounds h to whole minutes, saturating far outside a day so interval
// arithmetic cannot overflow. NaN counts as zero.
func (h Hours) Minutes() int {
	m := math.Round(float64(h) * 60)
	switch {
	case math.IsNaN(m):
		return 0
	case m > maxMinutes:
		return maxMinutes
	case m < -maxMinutes:
		return -maxMinutes
	}
	return int(m)
}

func (h Hours) IsHalfHourStep() bool {
	halves := float64(h) * 2
	return halves == math.Trunc(halves)
}

func isDecimal(s string) bool {
	s = strings.TrimPrefix(s, "-")
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return false
	}
	return (whole == "" || isDigits(whole)) && (frac == "" || isDigits(frac))
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
