package model

// ElementRecord is one catalog entry: a free-text name plus the two
// fixed-width element lines. Line1 always starts with "1 " and Line2 with
// "2 "; the parser never constructs a record that violates this.
// Records are immutable once parsed.
type ElementRecord struct {
	Name  string
	Line1 string
	Line2 string
}

// OrbitalElements holds the numeric fields decoded from an ElementRecord.
// It is derived on demand and never stored alongside the record.
type OrbitalElements struct {
	CatalogNumber string // NORAD catalog number, as printed (not deduplicated)

	EpochYear int     // two-digit epoch year from line 1
	EpochDay  float64 // fractional day of year from line 1

	InclinationDeg float64
	RAANDeg        float64
	Eccentricity   float64 // decoded from the implied-decimal field, 0 <= e < 1
	ArgPerigeeDeg  float64
	MeanAnomalyDeg float64

	// MeanMotionRevPerDay is in revolutions per mean solar day.
	MeanMotionRevPerDay float64
}
