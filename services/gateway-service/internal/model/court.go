package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownCourtType = errors.New("unknown court type")

type CourtType string

const (
	CourtPadel  CourtType = "padel"
	CourtTennis CourtType = "tennis"
)

// legacyPadel is the older spelling still sent by some clients and backends.
const legacyPadel = "paddle"

// CourtTypes lists the known types in display order.
var CourtTypes = []CourtType{CourtPadel, CourtTennis}

// ParseCourtType canonicalises a court type. "paddle" and "padel" name the same
// category; both are accepted and reported as CourtPadel.
func ParseCourtType(raw string) (CourtType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(CourtPadel), legacyPadel:
		return CourtPadel, nil
	case string(CourtTennis):
		return CourtTennis, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCourtType, raw)
	}
}

// CourtRange is the inclusive block of court numbers assigned to a type.
type CourtRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r CourtRange) Contains(n int) bool { return n >= r.Min && n <= r.Max }

func (r CourtRange) Count() int { return r.Max - r.Min + 1 }

var courtRanges = map[CourtType]CourtRange{
	CourtPadel:  {Min: 1, Max: 2},
	CourtTennis: {Min: 3, Max: 5},
}

func (c CourtType) Courts() CourtRange { return courtRanges[c] }

func (c CourtType) Valid() bool {
	_, ok := courtRanges[c]
	return ok
}

// Title is the name shown next to court pickers.
func (c CourtType) Title() string {
	switch c {
	case CourtPadel:
		return "Padel"
	case CourtTennis:
		return "Tennis"
	default:
		return string(c)
	}
}

// Spelling selects how padel is written on the wire to the booking API.
type Spelling string

const (
	SpellingPadel  Spelling = "padel"
	SpellingPaddle Spelling = "paddle"
)

func ParseSpelling(raw string) (Spelling, error) {
	switch Spelling(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SpellingPadel:
		return SpellingPadel, nil
	case SpellingPaddle:
		return SpellingPaddle, nil
	default:
		return "", fmt.Errorf("unknown court type spelling %q", raw)
	}
}

// WireName renders c for a backend that expects the given spelling.
func (c CourtType) WireName(s Spelling) string {
	if c == CourtPadel && s == SpellingPaddle {
		return legacyPadel
	}
	return string(c)
}
