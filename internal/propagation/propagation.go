// Package propagation carries posterior draws and timing uncertainty into
// per-draw eclipse observables.
package propagation

import (
	"EclipseCast/internal/domain"
	"EclipseCast/internal/orbit"
	"EclipseCast/internal/splitnormal"
)

// Computer derives i_deg, b_occ and t_eclipse for every posterior draw.
type Computer struct {
	physics orbit.Physics
}

// NewComputer wires the orbital relations; nil falls back to orbit.Winn2010.
func NewComputer(physics orbit.Physics) *Computer {
	if physics == nil {
		physics = orbit.Winn2010{}
	}
	return &Computer{physics: physics}
}

// Derive returns sequences of the same length as samples.
//
// Transit midtime and period are resampled independently for every draw, in
// that order, from rng. The orbital-shape draw and the timing resample are
// deliberately uncorrelated.
func (c *Computer) Derive(samples domain.PosteriorSampleSet, profile domain.SystemProfile, rng splitnormal.Source) domain.DerivedSampleSet {
	n := len(samples)
	out := domain.DerivedSampleSet{
		IDeg:     make([]float64, n),
		BOcc:     make([]float64, n),
		TEclipse: make([]float64, n),
	}

	for i, s := range samples {
		cosI := orbit.ClipCosine(s.CosI)
		out.IDeg[i] = orbit.InclinationDeg(cosI)
		out.BOcc[i] = c.physics.ImpactParameter(s.AOverRs, cosI, s.E, s.Omega)

		tTransit := splitnormal.Sample(rng, profile.TransitMidtime)
		period := splitnormal.Sample(rng, profile.Period)
		out.TEclipse[i] = c.physics.EclipseMidtime(tTransit, period, s.E, s.Omega)
	}

	return out
}

// InclinationSeries recomputes i_deg from stored samples.
func InclinationSeries(samples domain.PosteriorSampleSet) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = orbit.InclinationDeg(s.CosI)
	}
	return out
}
