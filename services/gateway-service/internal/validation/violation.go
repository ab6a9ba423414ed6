package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/availability"
	"github.com/md-rashed-zaman/courtbook/services/gateway-service/internal/model"
)

// Field names as used by the booking form.
const (
	FieldCourtType   = "courtType"
	FieldCourtNumber = "courtNumber"
	FieldDate        = "date"
	FieldTimeSlot    = "timeSlot"
	FieldDuration    = "duration"
)

type Code string

const (
	CodeMissingField          Code = "missing_field"
	CodeInvalidCourtType      Code = "invalid_court_type"
	CodeCourtTypeMismatch     Code = "court_type_mismatch"
	CodeInvalidDate           Code = "invalid_date"
	CodePastDate              Code = "past_date"
	CodeDateTooFarInFuture    Code = "date_too_far_in_future"
	CodeInvalidTime           Code = "invalid_time"
	CodeTimeNotAligned        Code = "time_not_aligned"
	CodeOutsideOperatingHours Code = "outside_operating_hours"
	CodeInvalidDuration       Code = "invalid_duration"
)

// Violation is one broken booking rule, attached to the form field it concerns.
type Violation struct {
	Field   string `json:"field"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Params  Params `json:"params,omitzero"`
}

// Params carries the values a rule was checked against. Only the fields relevant to
// the violation's Code are set.
type Params struct {
	CourtType model.CourtType        `json:"courtType,omitempty"`
	Min       int                    `json:"min,omitempty"`
	Max       int                    `json:"max,omitempty"`
	MaxDays   int                    `json:"maxDays,omitempty"`
	Open      availability.TimeOfDay `json:"open,omitzero"`
	Close     availability.TimeOfDay `json:"close,omitzero"`
	Shortest  availability.Hours     `json:"shortest,omitempty"`
	Longest   availability.Hours     `json:"longest,omitempty"`
}

func (v Violation) Error() string {
	return v.Field + ": " + v.Message
}

func MissingField(field string) Violation {
	return Violation{Field: field, Code: CodeMissingField, Message: fmt.Sprintf("%s is required", field)}
}

func InvalidCourtType(raw string) Violation {
	return Violation{
		Field:   FieldCourtType,
		Code:    CodeInvalidCourtType,
		Message: fmt.Sprintf("unknown court type %q (expected padel or tennis)", raw),
	}
}

func CourtTypeMismatch(ct model.CourtType, expectedMin, expectedMax int) Violation {
	return Violation{
		Field:   FieldCourtNumber,
		Code:    CodeCourtTypeMismatch,
		Message: fmt.Sprintf("%s courts are numbered %d-%d", strings.ToLower(ct.Title()), expectedMin, expectedMax),
		Params:  Params{CourtType: ct, Min: expectedMin, Max: expectedMax},
	}
}

func InvalidDate() Violation {
	return Violation{Field: FieldDate, Code: CodeInvalidDate, Message: "date must be a real calendar date in YYYY-MM-DD form"}
}

func PastDate() Violation {
	return Violation{Field: FieldDate, Code: CodePastDate, Message: "date cannot be in the past"}
}

func DateTooFarInFuture(maxDays int) Violation {
	return Violation{
		Field:   FieldDate,
		Code:    CodeDateTooFarInFuture,
		Message: fmt.Sprintf("bookings can be made at most %d days in advance", maxDays),
		Params:  Params{MaxDays: maxDays},
	}
}

func InvalidTime() Violation {
	return Violation{Field: FieldTimeSlot, Code: CodeInvalidTime, Message: "time must be in HH:MM 24-hour form"}
}

func TimeNotAligned() Violation {
	return Violation{Field: FieldTimeSlot, Code: CodeTimeNotAligned, Message: "bookings start on the hour or half hour"}
}

func OutsideOperatingHours(open, closing availability.TimeOfDay) Violation {
	return Violation{
		Field:   FieldTimeSlot,
		Code:    CodeOutsideOperatingHours,
		Message: fmt.Sprintf("bookings must be played between %s and %s", open, closing),
		Params:  Params{Open: open, Close: closing},
	}
}

func InvalidDuration(shortest, longest availability.Hours) Violation {
	return Violation{
		Field:   FieldDuration,
		Code:    CodeInvalidDuration,
		Message: fmt.Sprintf("duration must be between %g and %g hours in half-hour steps", float64(shortest), float64(longest)),
		Params:  Params{Shortest: shortest, Longest: longest},
	}
}

// Result is the outcome of validating one booking request. Errors holds at most one
// violation per field.
type Result struct {
	Valid  bool                 `json:"valid"`
	Errors map[string]Violation `json:"-"`
}

// Messages maps each failing field to its message, the shape the booking form renders.
func (r Result) Messages() map[string]string {
	out := make(map[string]string, len(r.Errors))
	for field, v := range r.Errors {
		out[field] = v.Message
	}
	return out
}

// Violations returns the violations sorted by field name.
func (r Result) Violations() []Violation {
	out := make([]Violation, 0, len(r.Errors))
	for _, v := range r.Errors {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

// Err joins every violation, or returns nil for a valid request.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	errs := make([]error, 0, len(r.Errors))
	for _, v := range r.Violations() {
		errs = append(errs, v)
	}
	return errors.Join(errs...)
}

func (r *Result) add(v Violation) {
	if _, taken := r.Errors[v.Field]; taken {
		return
	}
	r.Errors[v.Field] = v
}

func (r Result) has(field string) bool {
	_, ok := r.Errors[field]
	return ok
}
