package ports

import (
	"context"

	"EclipseCast/internal/domain"
)

// CatalogSource yields the systems to process, in catalog order.
type CatalogSource interface {
	Systems(ctx context.Context) ([]domain.SystemProfile, error)
}

// PosteriorSampler is the upstream orbital-parameter sampler.
// It may be arbitrarily slow and has no partial-result contract.
type PosteriorSampler interface {
	Name() string
	Sample(ctx context.Context, system domain.SystemProfile) (domain.PosteriorSampleSet, error)
}

// ResultsRepository persists the results table as a whole.
type ResultsRepository interface {
	Load(ctx context.Context) ([]domain.ResultRow, error)
	Save(ctx context.Context, rows []domain.ResultRow) error
}

// ChainArchive persists full snapshots of the chain store.
// Load on a missing archive returns an empty map and no error.
type ChainArchive interface {
	Load(ctx context.Context) (map[string]domain.ChainEntry, error)
	Save(ctx context.Context, entries map[string]domain.ChainEntry) error
}
