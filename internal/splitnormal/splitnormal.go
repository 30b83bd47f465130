// Package splitnormal draws from two-piece normal distributions used to carry
// asymmetric catalog uncertainty.
package splitnormal

import (
	"math"

	"EclipseCast/internal/domain"
)

// Source is the randomness consumed by Draw. *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
	NormFloat64() float64
}

// Draw returns one value from the split normal centred on center.
//
// A fair coin picks the side; the magnitude is |z| scaled by that side's error.
// With equal errors this is an ordinary Gaussian, with both errors zero it is a
// point mass at center.
func Draw(rng Source, center, errLower, errUpper float64) float64 {
	lower := rng.Float64() < 0.5
	z := math.Abs(rng.NormFloat64())
	if lower {
		return center - z*math.Abs(errLower)
	}
	return center + z*math.Abs(errUpper)
}

// Sample draws around a catalog measurement.
func Sample(rng Source, m domain.Measurement) float64 {
	return Draw(rng, m.Value, m.ErrLower, m.ErrUpper)
}
