package usecase

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EclipseCast/internal/chainstore"
	"EclipseCast/internal/domain"
	"EclipseCast/internal/infrastructure/storage"
	"EclipseCast/internal/randsrc"
	"EclipseCast/internal/results"
)

func TestResummarizeReproducesResults(t *testing.T) {
	t.Parallel()

	h := newHarness(300)
	ctx := context.Background()
	_, err := h.driver.Run(ctx, catalog(4))
	require.NoError(t, err)

	reloaded := chainstore.New(h.archive)
	require.NoError(t, reloaded.Load(ctx))

	rows, err := Resummarize(ctx, reloaded, h.repo.rows)
	require.NoError(t, err)
	assert.Equal(t, h.repo.rows, rows)
}

func TestResummarizeOrdersUnknownSystemsLast(t *testing.T) {
	t.Parallel()

	h := newHarness(20)
	ctx := context.Background()
	_, err := h.driver.Run(ctx, catalog(3))
	require.NoError(t, err)

	previous := []domain.ResultRow{{Name: "sys-002 b"}, {Name: "gone b"}}
	rows, err := Resummarize(ctx, h.chains, previous)
	require.NoError(t, err)

	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"sys-002 b", "sys-000 b", "sys-001 b"}, names)
}

func TestRebuildResultsFromArchive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()
	archive, err := storage.NewChainArchive(filepath.Join(dir, "chains.zst"), "fastest")
	require.NoError(t, err)
	csvRepo := storage.NewCSVResults(filepath.Join(dir, "results.csv"))

	driver := NewDriver(DriverDeps{
		Sampler: &fakeSampler{draws: 100},
		Results: results.NewTable(csvRepo),
		Chains:  chainstore.New(archive),
		Seeds:   randsrc.NewFactory(11),
	})
	_, err = driver.Run(ctx, catalog(3))
	require.NoError(t, err)
	want, err := csvRepo.Load(ctx)
	require.NoError(t, err)

	rebuiltRepo := &memoryResults{}
	n, err := RebuildResults(ctx, archive, rebuiltRepo)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, rebuiltRepo.rows, 3)

	for i, w := range want {
		got := rebuiltRepo.rows[i]
		assert.Equal(t, w.Name, got.Name)
		assert.Equal(t, w.BOcc.Median, got.BOcc.Median)
		assert.Equal(t, w.TEclipse.P84, got.TEclipse.P84)
		assert.Equal(t, w.IDeg.Std, got.IDeg.Std)
		assert.Equal(t, results.FormatQuantiles(w.TEclipse.Quantiles), results.FormatQuantiles(got.TEclipse.Quantiles))
	}
}

func TestInspectChain(t *testing.T) {
	t.Parallel()

	h := newHarness(500)
	_, err := h.driver.Run(context.Background(), catalog(1))
	require.NoError(t, err)

	report, err := InspectChain(h.chains, "sys-000 b")
	require.NoError(t, err)
	assert.Equal(t, 500, report.Samples)
	assert.InDelta(t, 8, report.AOverRs.Median, 0.05)
	assert.InDelta(t, 0.05, report.CosI.Median, 0.005)
	assert.Equal(t, 90.0, report.Omega.Median)
	assert.InDelta(t, 1501.75, report.TEclipse.Median, 0.005)

	_, err = InspectChain(h.chains, "missing b")
	require.Error(t, err)
}
