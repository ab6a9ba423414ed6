package validation

import (
	"strings"

	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/availability"
	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/model"
)

// Rules configures the booking checks that differ between call sites.
type Rules struct {
	// RequireHalfHour rejects start times off the :00/:30 grid.
	RequireHalfHour bool
}

var DefaultRules = Rules{RequireHalfHour: true}

// ValidateBooking checks req against the club rules with today as the local date.
// This is advisory: the booking API makes the final decision.
func ValidateBooking(req model.BookingRequest, today availability.Date) Result {
	return DefaultRules.Validate(req, today)
}

// Validate runs every rule and keeps the first violation found for each field, in rule
// order, so the form can show all problems at once.
func (rules Rules) Validate(req model.BookingRequest, today availability.Date) Result {
	res := Result{Errors: map[string]Violation{}}

	rawType := strings.TrimSpace(req.CourtType)
	if rawType == "" {
		res.add(MissingField(FieldCourtType))
	}
	if req.CourtNumber <= 0 {
		res.add(MissingField(FieldCourtNumber))
	}
	if strings.TrimSpace(req.Date) == "" {
		res.add(MissingField(FieldDate))
	}
	if strings.TrimSpace(req.TimeSlot) == "" {
		res.add(MissingField(FieldTimeSlot))
	}
	if req.Duration <= 0 {
		res.add(MissingField(FieldDuration))
	}

	courtType, typeErr := model.ParseCourtType(rawType)
	if rawType != "" && typeErr != nil {
		res.add(InvalidCourtType(rawType))
	}

	if typeErr == nil && req.CourtNumber > 0 {
		if courts := courtType.Courts(); !courts.Contains(req.CourtNumber) {
			res.add(CourtTypeMismatch(courtType, courts.Min, courts.Max))
		}
	}

	if !res.has(FieldDate) {
		checkDate(&res, strings.TrimSpace(req.Date), today)
	}

	start, startOK := availability.TimeOfDay{}, false
	if !res.has(FieldTimeSlot) {
		start, startOK = rules.checkTime(&res, strings.TrimSpace(req.TimeSlot))
	}

	duration := availability.Hours(req.Duration)
	durationOK := req.Duration > 0 && durationInBounds(duration)

	if startOK {
		w := availability.Window
		if !w.StartsInside(start) {
			res.add(OutsideOperatingHours(w.Open, w.Close))
		} else if durationOK && !w.FitsBeforeClose(start, duration) {
			res.add(OutsideOperatingHours(w.Open, w.Close))
		}
	}

	if req.Duration > 0 && !durationOK {
		res.add(InvalidDuration(availability.MinDuration, availability.MaxDuration))
	}

	res.Valid = len(res.Errors) == 0
	return res
}

func checkDate(res *Result, raw string, today availability.Date) {
	date, err := availability.ParseDate(raw)
	if err != nil {
		res.add(InvalidDate())
		return
	}
	switch days := today.DaysUntil(date); {
	case days < 0:
		res.add(PastDate())
	case days > availability.BookingHorizonDays:
		res.add(DateTooFarInFuture(availability.BookingHorizonDays))
	}
}

func (rules Rules) checkTime(res *Result, raw string) (availability.TimeOfDay, bool) {
	start, err := availability.ParseTimeOfDay(raw)
	if err != nil {
		res.add(InvalidTime())
		return availability.TimeOfDay{}, false
	}
	if rules.RequireHalfHour && !start.IsHalfHourAligned() {
		res.add(TimeNotAligned())
		return availability.TimeOfDay{}, false
	}
	return start, true
}

func durationInBounds(d availability.Hours) bool {
	return d >= availability.MinDuration && d <= availability.MaxDuration && d.IsHalfHourStep()
}
