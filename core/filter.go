package core

import (
	"errors"
	"strings"

	"github.com/signalsfoundry/leo-catalog/model"
)

// Classify decodes one record and evaluates the altitude and name
// predicates against it. The altitude bound is inclusive; an empty
// nameContains matches every name, otherwise matching is a
// case-insensitive substring test.
func Classify(rec model.ElementRecord, maxPerigeeKm float64, nameContains string) (model.Classification, error) {
	el, err := DecodeElements(rec)
	if err != nil {
		return model.Classification{}, err
	}

	altKm, err := PerigeeAltitude(el)
	if err != nil {
		var ie *InvalidElementError
		if errors.As(err, &ie) {
			ie.Record = rec.Name
		}
		return model.Classification{}, err
	}

	passesAlt := altKm <= maxPerigeeKm
	passesName := nameContains == "" ||
		strings.Contains(strings.ToLower(rec.Name), strings.ToLower(nameContains))

	return model.Classification{
		PerigeeAltitudeKm: altKm,
		Passes:            passesAlt && passesName,
	}, nil
}

// FilterResult summarises one filter run over a parsed catalog.
type FilterResult struct {
	// Matched holds the passing records in their original input order.
	Matched []model.ElementRecord

	Total             int // records examined
	ExcludedMalformed int // records dropped on field decode failure
	ExcludedInvalid   int // records dropped on undefined orbit
}

// Matches returns the number of passing records.
func (r FilterResult) Matches() int { return len(r.Matched) }

// Excluded returns how many records were dropped due to per-record errors.
func (r FilterResult) Excluded() int { return r.ExcludedMalformed + r.ExcludedInvalid }

// Filter applies the altitude threshold and optional name predicate to a
// record sequence, preserving input order. Per-record decode and compute
// failures are captured locally and only reflected in the exclusion counts;
// one record's failure never affects another's outcome and no error escapes
// to the caller.
func Filter(records []model.ElementRecord, maxPerigeeKm float64, nameContains string) FilterResult {
	result := FilterResult{Total: len(records)}
	for _, rec := range records {
		cls, err := Classify(rec, maxPerigeeKm, nameContains)
		switch {
		case errors.Is(err, ErrMalformedField):
			result.ExcludedMalformed++
		case errors.Is(err, ErrInvalidElement):
			result.ExcludedInvalid++
		case err != nil:
			// Unknown failures are treated like any other per-record error.
			result.ExcludedInvalid++
		case cls.Passes:
			result.Matched = append(result.Matched, rec)
		}
	}
	return result
}
