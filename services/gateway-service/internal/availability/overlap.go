package availability

// Interval is the half-open span [Start, End) in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

func IntervalOf(start TimeOfDay, d Hours) Interval {
	s := start.Minutes()
	return Interval{Start: s, End: s + d.Minutes()}
}

// Overlaps reports whether two half-open intervals intersect. Intervals that only touch
// (one ends exactly when the other starts) do not overlap.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start < b.End && a.End > b.Start
}

// Overlaps reports whether two bookings on the same day would occupy the court at the
// same time. Callers must filter by date first; bookings on different days never clash.
func Overlaps(start1 TimeOfDay, d1 Hours, start2 TimeOfDay, d2 Hours) bool {
	return IntervalOf(start1, d1).Overlaps(IntervalOf(start2, d2))
}
