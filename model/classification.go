package model

// Classification is the per-record outcome of the altitude/name filter.
// It is computed fresh on every run and never persisted.
type Classification struct {
	// PerigeeAltitudeKm may legitimately be negative for decayed or
	// re-entering objects; plausibility is the caller's concern.
	PerigeeAltitudeKm float64

	// Passes combines the altitude threshold and name predicates.
	Passes bool
}
