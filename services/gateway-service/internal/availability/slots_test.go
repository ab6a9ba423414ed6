package availability

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"testing"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func starts(slots []Slot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start.String())
	}
	return out
}

func TestGenerateSlots_OneHour(t *testing.T) {
	slots, err := CollectSlots(mustDate(t, "2024-06-01"), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var want []string
	for m := 8 * 60; m <= 21*60; m += 30 {
		want = append(want, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	if got := starts(slots); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if len(slots) != 27 {
		t.Fatalf("expected 27 slots from 08:00 through 21:00, got %d", len(slots))
	}

	first, last := slots[0], slots[len(slots)-1]
	if first.Label != "8:00 AM" || first.End.String() != "09:00" {
		t.Fatalf("unexpected first slot %+v", first)
	}
	if last.Start.String() != "21:00" || last.End.String() != "22:00" || last.Label != "9:00 PM" {
		t.Fatalf("unexpected last slot %+v", last)
	}
	for _, s := range slots {
		if s.Date != mustDate(t, "2024-06-01") {
			t.Fatalf("slot carries wrong date: %+v", s)
		}
	}
}

func TestGenerateSlots_ClosingBoundary(t *testing.T) {
	cases := []struct {
		start    string
		duration Hours
		included bool
	}{
		{"21:00", 0.5, true},
		{"21:00", 1, true},
		{"21:00", 1.5, false},
		{"21:30", 0.5, true},
		{"21:30", 1, false},
		{"20:00", 2, true},
		{"20:30", 2, false},
		{"18:00", 4, true},
		{"18:30", 4, false},
	}

	for _, tc := range cases {
		slots, err := CollectSlots(mustDate(t, "2024-06-01"), tc.duration)
		if err != nil {
			t.Fatalf("%s/%v: unexpected error: %v", tc.start, tc.duration, err)
		}
		got := slices.Contains(starts(slots), tc.start)
		if got != tc.included {
			t.Fatalf("start %s with %vh: included=%v, want %v", tc.start, tc.duration, got, tc.included)
		}
	}
}

func TestGenerateSlots_AllInsideWindow(t *testing.T) {
	date := mustDate(t, "2025-01-15")
	for d := Hours(0.5); d <= 4; d += 0.5 {
		slots, err := CollectSlots(date, d)
		if err != nil {
			t.Fatalf("%vh: unexpected error: %v", d, err)
		}
		if len(slots) == 0 {
			t.Fatalf("%vh: expected slots", d)
		}
		for _, s := range slots {
			if s.Start.Minutes() < Window.Open.Minutes() {
				t.Fatalf("%vh: slot starts before opening: %+v", d, s)
			}
			if s.End.Minutes() > Window.Close.Minutes() {
				t.Fatalf("%vh: slot ends after closing: %+v", d, s)
			}
			if s.End.Minutes()-s.Start.Minutes() != d.Minutes() {
				t.Fatalf("%vh: wrong slot length: %+v", d, s)
			}
		}
	}
}

func TestGenerateSlots_Restartable(t *testing.T) {
	seq, err := GenerateSlots(mustDate(t, "2024-06-01"), 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	if !slices.Equal(first, second) {
		t.Fatalf("second pass differs: %v vs %v", first, second)
	}

	again, err := CollectSlots(mustDate(t, "2024-06-01"), 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(first, again) {
		t.Fatal("identical inputs produced different sequences")
	}
}

func TestGenerateSlots_EarlyStop(t *testing.T) {
	seq, err := GenerateSlots(mustDate(t, "2024-06-01"), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := 0
	for range seq {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Fatalf("expected to stop after 3, got %d", n)
	}
}

func TestGenerateSlots_TooLongIsEmpty(t *testing.T) {
	slots, err := CollectSlots(mustDate(t, "2024-06-01"), 14.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots, got %v", starts(slots))
	}

	slots, err = CollectSlots(mustDate(t, "2024-06-01"), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 1 || slots[0].Start.String() != "08:00" {
		t.Fatalf("expected a single 08:00 slot, got %v", starts(slots))
	}
}

func TestGenerateSlots_RejectsPathologicalDurations(t *testing.T) {
	for _, d := range []Hours{0, -1, 0.25, 1.2, 25, 1e20, math.MaxFloat64, Hours(math.Inf(1)), Hours(math.NaN())} {
		if _, err := GenerateSlots(mustDate(t, "2024-06-01"), d); !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("%vh: expected ErrInvalidDuration, got %v", d, err)
		}
	}
}

func TestEndTime(t *testing.T) {
	end, err := EndTime(MustParseTimeOfDay("14:30"), 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end.String() != "16:00" {
		t.Fatalf("expected 16:00, got %s", end)
	}

	if _, err := EndTime(MustParseTimeOfDay("22:00"), 2); !errors.Is(err, ErrCrossesMidnight) {
		t.Fatalf("expected ErrCrossesMidnight, got %v", err)
	}
	if _, err := EndTime(MustParseTimeOfDay("23:30"), 1); !errors.Is(err, ErrCrossesMidnight) {
		t.Fatalf("expected ErrCrossesMidnight, got %v", err)
	}
}

func TestWindowContains(t *testing.T) {
	cases := []struct {
		start string
		d     Hours
		want  bool
	}{
		{"08:00", 1, true},
		{"07:30", 1, false},
		{"20:00", 2, true},
		{"20:30", 2, false},
		{"22:00", 0.5, false},
	}
	for _, tc := range cases {
		if got := Window.Contains(MustParseTimeOfDay(tc.start), tc.d); got != tc.want {
			t.Fatalf("Contains(%s, %v) = %v, want %v", tc.start, tc.d, got, tc.want)
		}
	}
}
