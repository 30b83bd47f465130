package posterior

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"EclipseCast/internal/domain"
	"EclipseCast/internal/ports"
	"EclipseCast/internal/randsrc"
	"EclipseCast/internal/splitnormal"
)

const (
	// CatalogSamplerName identifies CatalogSampler in the sampler registry.
	CatalogSamplerName = "catalog"

	maxEccentricity = 0.99
)

// CatalogSampler draws orbital elements independently from the split normals
// of the catalog values. It stands in for a fitted posterior when none is available.
type CatalogSampler struct {
	draws  int
	seeds  *randsrc.Factory
	logger *slog.Logger
}

var _ ports.PosteriorSampler = (*CatalogSampler)(nil)

// NewCatalogSampler returns a sampler producing draws samples per system.
func NewCatalogSampler(draws int, seeds *randsrc.Factory, logger *slog.Logger) *CatalogSampler {
	if seeds == nil {
		seeds = randsrc.NewFactory(0)
	}
	return &CatalogSampler{draws: draws, seeds: seeds, logger: logger}
}

// Name identifies the strategy inside the registry.
func (c *CatalogSampler) Name() string {
	return CatalogSamplerName
}

// Sample returns c.draws tuples of (a/Rs, cos i, e, ω).
//
// cos i is kept in [0, 1], e in [0, 0.99] and ω in [0, 360).
func (c *CatalogSampler) Sample(ctx context.Context, system domain.SystemProfile) (domain.PosteriorSampleSet, error) {
	if c.draws <= 0 {
		return nil, fmt.Errorf("sampler %s: draws must be positive, got %d", c.Name(), c.draws)
	}

	rng := c.seeds.For("posterior/" + system.Name)
	out := make(domain.PosteriorSampleSet, c.draws)
	for i := range out {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		inc := splitnormal.Sample(rng, system.Inclination)
		out[i] = domain.PosteriorDraw{
			AOverRs: math.Max(splitnormal.Sample(rng, system.AOverRs), 1),
			CosI:    math.Max(0, math.Min(1, math.Cos(inc*math.Pi/180))),
			E:       math.Max(0, math.Min(maxEccentricity, splitnormal.Sample(rng, system.Eccentricity))),
			Omega:   wrapDegrees(splitnormal.Sample(rng, system.Omega)),
		}
	}

	if c.logger != nil {
		c.logger.Debug("posterior sampled", "system", system.Name, "draws", len(out))
	}
	return out, nil
}

func wrapDegrees(deg float64) float64 {
	w := math.Mod(deg, 360)
	if w < 0 {
		w += 360
	}
	if w >= 360 {
		return 0
	}
	return w
}
