// Package stats reduces derived-quantity samples to percentile summaries.
package stats

import (
	"errors"
	"math"
	"sort"

	"EclipseCast/internal/domain"
)

// QuantileGridSize is the number of points in SummaryRecord.Quantiles.
const QuantileGridSize = 100

var (
	// ErrEmptySample is returned when there is nothing to summarize.
	ErrEmptySample = errors.New("stats: empty sample")
	// ErrNonFinite is returned when a sample contains NaN or ±Inf.
	ErrNonFinite = errors.New("stats: non-finite value in sample")
)

// Summarize computes median, population std, p16/p84, asymmetric errors and the quantile grid.
func Summarize(values []float64) (domain.SummaryRecord, error) {
	if len(values) == 0 {
		return domain.SummaryRecord{}, ErrEmptySample
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	for _, v := range sorted {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.SummaryRecord{}, ErrNonFinite
		}
	}
	sort.Float64s(sorted)

	median := Percentile(sorted, 50)
	p16 := Percentile(sorted, 16)
	p84 := Percentile(sorted, 84)

	quantiles := make([]float64, QuantileGridSize)
	for i := range quantiles {
		quantiles[i] = Percentile(sorted, gridPoint(i))
	}

	return domain.SummaryRecord{
		Median:    median,
		Std:       PopulationStd(sorted),
		P16:       p16,
		P84:       p84,
		ErrLower:  median - p16,
		ErrUpper:  p84 - median,
		Quantiles: quantiles,
	}, nil
}

// Percentile interpolates linearly between order statistics of an ascending slice.
// p is in [0, 100]. The slice must be non-empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(n-1)
	switch {
	case rank <= 0:
		return sorted[0]
	case rank >= float64(n-1):
		return sorted[n-1]
	}

	lo := int(math.Floor(rank))
	frac := rank - float64(lo)
	if frac == 0 {
		return sorted[lo]
	}
	// Interpolate from the nearer neighbour, as numpy's lerp does, so the
	// result never steps past either order statistic.
	a, b := sorted[lo], sorted[lo+1]
	if frac >= 0.5 {
		return b - (b-a)*(1-frac)
	}
	return a + (b-a)*frac
}

// PopulationStd is the standard deviation with divisor n.
func PopulationStd(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}

// gridPoint mirrors linspace(0, 100, QuantileGridSize).
func gridPoint(i int) float64 {
	if i == QuantileGridSize-1 {
		return 100
	}
	return float64(i) * 100 / float64(QuantileGridSize-1)
}
