package core

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedField is the sentinel for element lines whose fixed-width
	// subfields cannot be decoded as the expected numeric format.
	ErrMalformedField = errors.New("malformed element field")
	// ErrInvalidElement is the sentinel for decoded elements that describe
	// no valid orbit (e.g. non-positive mean motion).
	ErrInvalidElement = errors.New("invalid orbital element")
)

// MalformedFieldError names the record and field that failed to decode.
type MalformedFieldError struct {
	Record string // record name; may be empty for anonymous entries
	Field  string // e.g. "eccentricity", "mean motion"
	Value  string // raw column content as extracted
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("record %q: field %s: cannot decode %q", e.Record, e.Field, e.Value)
}

func (e *MalformedFieldError) Unwrap() error { return ErrMalformedField }

// InvalidElementError flags a decoded element set with no defined orbit.
type InvalidElementError struct {
	Record     string
	MeanMotion float64
}

func (e *InvalidElementError) Error() string {
	return fmt.Sprintf("record %q: mean motion %g rev/day does not describe an orbit", e.Record, e.MeanMotion)
}

func (e *InvalidElementError) Unwrap() error { return ErrInvalidElement }
