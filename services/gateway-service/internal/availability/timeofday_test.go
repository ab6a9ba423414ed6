package availability

import (
	"errors"
	"testing"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("07:05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tod.Hour != 7 || tod.Minute != 5 || tod.Minutes() != 425 {
		t.Fatalf("unexpected value %+v", tod)
	}

	for _, bad := range []string{"24:00", "9:00", "12:60", "12-30", "ab:cd", "", "12:300"} {
		if _, err := ParseTimeOfDay(bad); !errors.Is(err, ErrInvalidTime) {
			t.Fatalf("ParseTimeOfDay(%q): expected ErrInvalidTime, got %v", bad, err)
		}
	}
}

func TestTimeOfDayLabel(t *testing.T) {
	cases := map[string]string{
		"00:00": "12:00 AM",
		"08:30": "8:30 AM",
		"12:00": "12:00 PM",
		"14:30": "2:30 PM",
		"21:00": "9:00 PM",
		"23:30": "11:30 PM",
	}
	for in, want := range cases {
		if got := MustParseTimeOfDay(in).Label(); got != want {
			t.Fatalf("Label(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestHalfHourAlignment(t *testing.T) {
	if !MustParseTimeOfDay("10:30").IsHalfHourAligned() || MustParseTimeOfDay("10:15").IsHalfHourAligned() {
		t.Fatal("unexpected alignment")
	}
}

func TestHours(t *testing.T) {
	h, err := ParseHours("1.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Minutes() != 90 || !h.IsHalfHourStep() {
		t.Fatalf("unexpected hours %v", h)
	}
	if Hours(1.25).IsHalfHourStep() {
		t.Fatal("1.25 is not a half-hour step")
	}
	for _, bad := range []string{"", "abc", "NaN", "Inf", ".", "-", "1e20", "1e1", "0x1p1", "1_0", "1.5.0", "+1", "24.5", "-25"} {
		if _, err := ParseHours(bad); !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("ParseHours(%q): expected ErrInvalidDuration, got %v", bad, err)
		}
	}
	for raw, want := range map[string]Hours{"2": 2, "0.5": 0.5, ".5": 0.5, "4.": 4, "24": 24, "-1": -1} {
		got, err := ParseHours(raw)
		if err != nil || got != want {
			t.Fatalf("ParseHours(%q) = %v, %v; want %v", raw, got, err, want)
		}
	}
}
