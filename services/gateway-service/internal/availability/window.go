package availability

import "time"

// Club-wide booking rules. They are fixed for the life of the process.
const (
	OpenHour           = 8
	CloseHour          = 22
	SlotStep           = 30 * time.Minute
	MinDuration        = Hours(1)
	MaxDuration        = Hours(4)
	BookingHorizonDays = 30
)

// OperatingWindow is the daily interval in which courts can be played.
type OperatingWindow struct {
	Open  TimeOfDay
	Close TimeOfDay
	Step  time.Duration
}

var Window = OperatingWindow{
	Open:  TimeOfDay{Hour: OpenHour},
	Close: TimeOfDay{Hour: CloseHour},
	Step:  SlotStep,
}

// StartsInside reports whether start's hour falls in [open hour, close hour).
func (w OperatingWindow) StartsInside(start TimeOfDay) bool {
	return start.Hour >= w.Open.Hour && start.Hour < w.Close.Hour
}

// FitsBeforeClose reports whether start+d ends no later than closing time.
func (w OperatingWindow) FitsBeforeClose(start TimeOfDay, d Hours) bool {
	end := start.Minutes() + d.Minutes()
	return end <= w.Close.Minutes()
}

// Contains reports whether a booking of length d starting at start is played entirely
// inside the window.
func (w OperatingWindow) Contains(start TimeOfDay, d Hours) bool {
	return w.StartsInside(start) && w.FitsBeforeClose(start, d)
}
