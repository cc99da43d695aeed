package core

import (
	"strconv"
	"strings"

	"github.com/signalsfoundry/leo-catalog/model"
)

// Fixed-width column ranges of the two-line element format, 0-based
// half-open as used for slicing. Canonical lines are 69 characters; the
// decoder tolerates shorter lines by failing the affected field decode
// instead of indexing out of range.
const (
	colCatalogNumLo, colCatalogNumHi     = 2, 7 // line 2
	colInclinationLo, colInclinationHi   = 8, 16
	colRAANLo, colRAANHi                 = 17, 25
	colEccentricityLo, colEccentricityHi = 26, 33
	colArgPerigeeLo, colArgPerigeeHi     = 34, 42
	colMeanAnomalyLo, colMeanAnomalyHi   = 43, 51
	colMeanMotionLo, colMeanMotionHi     = 52, 63

	colEpochYearLo, colEpochYearHi = 18, 20 // line 1
	colEpochDayLo, colEpochDayHi   = 20, 32
)

// DecodeElements extracts the typed numeric fields from a record's element
// lines. It is a pure function of the character positions of the lines; any
// subfield outside its expected numeric format yields a *MalformedFieldError
// wrapping ErrMalformedField, never a panic. Callers are expected to treat
// a failure as "exclude this record", not as a batch-fatal error.
func DecodeElements(rec model.ElementRecord) (model.OrbitalElements, error) {
	var el model.OrbitalElements

	el.CatalogNumber = column(rec.Line2, colCatalogNumLo, colCatalogNumHi)

	var err error
	if el.EpochYear, err = decodeInt(rec, "epoch year", rec.Line1, colEpochYearLo, colEpochYearHi); err != nil {
		return model.OrbitalElements{}, err
	}
	if el.EpochDay, err = decodeFloat(rec, "epoch day", rec.Line1, colEpochDayLo, colEpochDayHi); err != nil {
		return model.OrbitalElements{}, err
	}

	if el.InclinationDeg, err = decodeFloat(rec, "inclination", rec.Line2, colInclinationLo, colInclinationHi); err != nil {
		return model.OrbitalElements{}, err
	}
	if el.RAANDeg, err = decodeFloat(rec, "raan", rec.Line2, colRAANLo, colRAANHi); err != nil {
		return model.OrbitalElements{}, err
	}
	if el.Eccentricity, err = decodeImpliedDecimal(rec, "eccentricity", rec.Line2, colEccentricityLo, colEccentricityHi); err != nil {
		return model.OrbitalElements{}, err
	}
	if el.ArgPerigeeDeg, err = decodeFloat(rec, "argument of perigee", rec.Line2, colArgPerigeeLo, colArgPerigeeHi); err != nil {
		return model.OrbitalElements{}, err
	}
	if el.MeanAnomalyDeg, err = decodeFloat(rec, "mean anomaly", rec.Line2, colMeanAnomalyLo, colMeanAnomalyHi); err != nil {
		return model.OrbitalElements{}, err
	}
	if el.MeanMotionRevPerDay, err = decodeFloat(rec, "mean motion", rec.Line2, colMeanMotionLo, colMeanMotionHi); err != nil {
		return model.OrbitalElements{}, err
	}

	return el, nil
}

// column slices [lo, hi) out of line, clamped to the line's actual length,
// and trims surrounding whitespace. Short lines yield a short or empty
// field, which then fails numeric decoding rather than panicking.
func column(line string, lo, hi int) string {
	if lo >= len(line) {
		return ""
	}
	if hi > len(line) {
		hi = len(line)
	}
	return strings.TrimSpace(line[lo:hi])
}

func decodeFloat(rec model.ElementRecord, field, line string, lo, hi int) (float64, error) {
	raw := column(line, lo, hi)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &MalformedFieldError{Record: rec.Name, Field: field, Value: raw}
	}
	return v, nil
}

func decodeInt(rec model.ElementRecord, field, line string, lo, hi int) (int, error) {
	raw := column(line, lo, hi)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &MalformedFieldError{Record: rec.Name, Field: field, Value: raw}
	}
	return v, nil
}

// decodeImpliedDecimal reads a digits-only field with an implied leading
// "0." (the TLE eccentricity encoding: "0001817" means 0.0001817).
func decodeImpliedDecimal(rec model.ElementRecord, field, line string, lo, hi int) (float64, error) {
	raw := column(line, lo, hi)
	if raw == "" {
		return 0, &MalformedFieldError{Record: rec.Name, Field: field, Value: raw}
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, &MalformedFieldError{Record: rec.Name, Field: field, Value: raw}
		}
	}
	v, err := strconv.ParseFloat("0."+raw, 64)
	if err != nil {
		return 0, &MalformedFieldError{Record: rec.Name, Field: field, Value: raw}
	}
	return v, nil
}
