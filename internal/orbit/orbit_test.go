package orbit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClipCosine(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, ClipCosine(1.0000000002))
	assert.Equal(t, -1.0, ClipCosine(-1.3))
	assert.Equal(t, 0.25, ClipCosine(0.25))
}

func TestInclinationDeg(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 90.0, InclinationDeg(0), 1e-12)
	assert.InDelta(t, 60.0, InclinationDeg(0.5), 1e-12)
	assert.Equal(t, 0.0, InclinationDeg(1+1e-12))
	assert.False(t, math.IsNaN(InclinationDeg(-1-1e-9)))
}

func TestCircularOrbit(t *testing.T) {
	t.Parallel()

	var p Physics = Winn2010{}

	// Circular orbits put the occultation half a period after transit.
	assert.InDelta(t, 1501.75, p.EclipseMidtime(1500, 3.5, 0, 90), 1e-12)
	assert.InDelta(t, 8*0.1, p.ImpactParameter(8, 0.1, 0, 90), 1e-12)
}

func TestEccentricOrbit(t *testing.T) {
	t.Parallel()

	// ω = 0 gives the largest eclipse offset; ω = 90 leaves the offset at P/2.
	assert.InDelta(t, 10+5*(1+4/math.Pi*0.1), EclipseMidtime(10, 10, 0.1, 0), 1e-12)
	assert.InDelta(t, 15.0, EclipseMidtime(10, 10, 0.1, 90), 1e-12)

	want := 10 * 0.05 * (1 - 0.04) / (1 - 0.2)
	assert.InDelta(t, want, OccultationImpactParameter(10, 0.05, 0.2, 90), 1e-12)
}
