package availability

import (
	"fmt"
	"iter"
	"slices"
)

// Slot is a candidate start time on a day together with the end time implied by the
// requested duration.
type Slot struct {
	Date  Date      `json:"date"`
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
	Label string    `json:"label"`
}

// EndTime adds d to start. There is no rollover into the next day.
func EndTime(start TimeOfDay, d Hours) (TimeOfDay, error) {
	return start.Add(d)
}

// GenerateSlots returns the start times on date at which a booking of length d fits
// inside the operating window. The sequence is lazy and can be ranged over any number
// of times; every pass yields the same slots in start order. It says nothing about
// which slots are already taken.
//
// Durations that are not positive half-hour steps, or longer than a day, are rejected.
// A duration too long for the window produces an empty sequence.
func GenerateSlots(date Date, d Hours) (iter.Seq[Slot], error) {
	return Window.Slots(date, d)
}

// CollectSlots is GenerateSlots materialised into a slice.
func CollectSlots(date Date, d Hours) ([]Slot, error) {
	seq, err := GenerateSlots(date, d)
	if err != nil {
		return nil, err
	}
	return slices.Collect(seq), nil
}

func (w OperatingWindow) Slots(date Date, d Hours) (iter.Seq[Slot], error) {
	if !(d > 0 && d <= MaxHours) || !d.IsHalfHourStep() {
		return nil, fmt.Errorf("%w: %v hours", ErrInvalidDuration, float64(d))
	}
	step := int(w.Step.Minutes())
	if step <= 0 || !w.Open.Before(w.Close) {
		panic(fmt.Sprintf("availability: malformed operating window %+v", w))
	}

	duration := d.Minutes()
	open, closing := w.Open.Minutes(), w.Close.Minutes()

	return func(yield func(Slot) bool) {
		for start := open; start < closing; start += step {
			end := start + duration
			// Ends are monotonic, so the first candidate past closing ends the day.
			if end > closing {
				return
			}
			s := fromMinutes(start)
			if !yield(Slot{Date: date, Start: s, End: fromMinutes(end), Label: s.Label()}) {
				return
			}
		}
	}, nil
}
