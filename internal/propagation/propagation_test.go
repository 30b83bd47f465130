package propagation

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EclipseCast/internal/domain"
	"EclipseCast/internal/orbit"
	"EclipseCast/internal/stats"
)

func scenarioProfile() domain.SystemProfile {
	return domain.SystemProfile{
		Name:           "scenario b",
		TransitMidtime: domain.Measurement{Value: 1500.0, ErrLower: 0.001, ErrUpper: 0.001},
		Period:         domain.Measurement{Value: 3.5, ErrLower: 3.5e-6, ErrUpper: 3.5e-6},
	}
}

func TestDeriveLengthsMatch(t *testing.T) {
	t.Parallel()

	samples := domain.PosteriorSampleSet{
		{AOverRs: 8, CosI: 0.1, E: 0, Omega: 90},
		{AOverRs: 9, CosI: 1.0000001, E: 0.1, Omega: 45},
		{AOverRs: 7, CosI: -1.2, E: 0.05, Omega: 180},
	}

	out := NewComputer(nil).Derive(samples, scenarioProfile(), rand.New(rand.NewPCG(1, 1)))

	require.Len(t, out.IDeg, len(samples))
	require.Len(t, out.BOcc, len(samples))
	require.Len(t, out.TEclipse, len(samples))
	assert.Equal(t, len(samples), out.Len())

	// out-of-range cosines are clipped rather than dropped
	assert.Equal(t, 0.0, out.IDeg[1])
	assert.InDelta(t, 180.0, out.IDeg[2], 1e-12)
	assert.InDelta(t, orbit.OccultationImpactParameter(9, 1, 0.1, 45), out.BOcc[1], 1e-12)
}

func TestDeriveEmpty(t *testing.T) {
	t.Parallel()

	out := NewComputer(nil).Derive(nil, scenarioProfile(), rand.New(rand.NewPCG(1, 1)))
	assert.Equal(t, 0, out.Len())
	assert.Empty(t, out.IDeg)
	assert.Empty(t, out.TEclipse)
}

func TestDeriveDeterministicForSeed(t *testing.T) {
	t.Parallel()

	samples := domain.PosteriorSampleSet{{AOverRs: 8, CosI: 0.1, E: 0.02, Omega: 30}}
	c := NewComputer(orbit.Winn2010{})

	a := c.Derive(samples, scenarioProfile(), rand.New(rand.NewPCG(5, 5)))
	b := c.Derive(samples, scenarioProfile(), rand.New(rand.NewPCG(5, 5)))
	assert.Equal(t, a, b)
}

func TestDeriveCircularScenario(t *testing.T) {
	t.Parallel()

	const n = 10000
	posteriorRNG := rand.New(rand.NewPCG(2024, 1))
	samples := make(domain.PosteriorSampleSet, n)
	for i := range samples {
		samples[i] = domain.PosteriorDraw{
			AOverRs: 8 + 0.05*posteriorRNG.NormFloat64(),
			CosI:    0.05 + 0.005*posteriorRNG.NormFloat64(),
			E:       0,
			Omega:   90,
		}
	}

	out := NewComputer(nil).Derive(samples, scenarioProfile(), rand.New(rand.NewPCG(42, 0)))

	tEcl, err := stats.Summarize(out.TEclipse)
	require.NoError(t, err)
	// half-period offset at zero eccentricity, within the propagated timing error
	assert.InDelta(t, 1500.0+1.75, tEcl.Median, 0.001)
	assert.InDelta(t, 0.001, tEcl.Std, 0.0001)

	bOcc, err := stats.Summarize(out.BOcc)
	require.NoError(t, err)

	a := make([]float64, n)
	c := make([]float64, n)
	for i, s := range samples {
		a[i] = s.AOverRs
		c[i] = s.CosI
	}
	sort.Float64s(a)
	sort.Float64s(c)
	atMedian := orbit.OccultationImpactParameter(stats.Percentile(a, 50), stats.Percentile(c, 50), 0, 90)
	assert.InDelta(t, atMedian, bOcc.Median, 0.005)
}

func TestInclinationSeries(t *testing.T) {
	t.Parallel()

	got := InclinationSeries(domain.PosteriorSampleSet{{CosI: 0}, {CosI: 0.5}})
	require.Len(t, got, 2)
	assert.InDelta(t, 90, got[0], 1e-12)
	assert.InDelta(t, 60, got[1], 1e-12)
}
