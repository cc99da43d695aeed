package core

import (
	"math"

	"github.com/signalsfoundry/leo-catalog/model"
)

// Reference body constants. Named so an alternate body is a constant swap,
// not a change to the calculation.
const (
	// EarthMuKm3S2 is Earth's standard gravitational parameter in km³/s²,
	// consistent with the mean-element convention this derivation follows.
	EarthMuKm3S2 = 398600.4418

	// EarthRadiusKm is Earth's mean equatorial radius in kilometres.
	EarthRadiusKm = 6378.137

	secondsPerDay = 86400.0
)

// PerigeeAltitude derives perigee altitude above the reference body surface
// from decoded mean motion and eccentricity.
//
// Mean motion is converted to rad/s, the semi-major axis follows from
// Kepler's third law (a = (μ/n²)^⅓), and perigee altitude is a(1−e) minus
// the body radius. This is a first-order mean-element approximation with no
// secular corrections; it is not a propagator.
//
// The result may be negative (decayed object) or implausibly large (garbage
// input that still decoded); no clamping is applied here. A non-positive
// mean motion yields an *InvalidElementError wrapping ErrInvalidElement
// instead of a silent NaN or infinity.
func PerigeeAltitude(el model.OrbitalElements) (float64, error) {
	if el.MeanMotionRevPerDay <= 0 {
		return 0, &InvalidElementError{MeanMotion: el.MeanMotionRevPerDay}
	}

	nRadS := el.MeanMotionRevPerDay * 2 * math.Pi / secondsPerDay
	aKm := math.Cbrt(EarthMuKm3S2 / (nRadS * nRadS))
	perigeeRadiusKm := aKm * (1 - el.Eccentricity)
	return perigeeRadiusKm - EarthRadiusKm, nil
}

// SemiMajorAxis exposes the intermediate Kepler-derived semi-major axis in
// kilometres, mainly for diagnostics and tests.
func SemiMajorAxis(meanMotionRevPerDay float64) (float64, error) {
	if meanMotionRevPerDay <= 0 {
		return 0, &InvalidElementError{MeanMotion: meanMotionRevPerDay}
	}
	nRadS := meanMotionRevPerDay * 2 * math.Pi / secondsPerDay
	return math.Cbrt(EarthMuKm3S2 / (nRadS * nRadS)), nil
}
