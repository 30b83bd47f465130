package splitnormal

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EclipseCast/internal/domain"
)

func TestDrawSymmetricMatchesGaussian(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	const (
		n      = 200000
		center = 10.0
		sigma  = 0.5
	)

	var sum, sumSq float64
	for i := 0; i < n; i++ {
		v := Draw(rng, center, sigma, sigma)
		sum += v
		sumSq += v * v
	}
	mean := sum / n
	std := math.Sqrt(sumSq/n - mean*mean)

	assert.InDelta(t, center, mean, 0.01)
	assert.InDelta(t, sigma, std, 0.01)
}

func TestDrawAsymmetricSides(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 11))
	const n = 100000

	var below, above int
	var sumBelow, sumAbove float64
	for i := 0; i < n; i++ {
		v := Draw(rng, 0, 1, 3)
		if v < 0 {
			below++
			sumBelow += v
		} else {
			above++
			sumAbove += v
		}
	}

	assert.InDelta(t, 0.5, float64(below)/n, 0.01)
	// E|z| = sqrt(2/pi) for a half normal.
	halfNormalMean := math.Sqrt(2 / math.Pi)
	assert.InDelta(t, -1*halfNormalMean, sumBelow/float64(below), 0.02)
	assert.InDelta(t, 3*halfNormalMean, sumAbove/float64(above), 0.05)
}

func TestDrawZeroErrorsIsPointMass(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 1000; i++ {
		require.Equal(t, 42.0, Draw(rng, 42, 0, 0))
	}
}

func TestSampleUsesMeasurement(t *testing.T) {
	t.Parallel()

	a := rand.New(rand.NewPCG(5, 6))
	b := rand.New(rand.NewPCG(5, 6))
	m := domain.Measurement{Value: 3.5, ErrLower: 1e-3, ErrUpper: 2e-3}

	for i := 0; i < 100; i++ {
		require.Equal(t, Draw(a, 3.5, 1e-3, 2e-3), Sample(b, m))
	}
}
