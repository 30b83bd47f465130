package usecase

import (
	"context"
	"fmt"

	"EclipseCast/internal/chainstore"
	"EclipseCast/internal/domain"
	"EclipseCast/internal/ports"
	"EclipseCast/internal/propagation"
	"EclipseCast/internal/stats"
)

// Resummarize rebuilds the results rows from stored chains alone. Systems keep
// the order of previous, when given; chains absent from previous follow in
// lexical order.
func Resummarize(ctx context.Context, chains *chainstore.Store, previous []domain.ResultRow) ([]domain.ResultRow, error) {
	order := make([]string, 0, chains.Len())
	listed := map[string]bool{}
	for _, row := range previous {
		if chains.Has(row.Name) && !listed[row.Name] {
			order = append(order, row.Name)
			listed[row.Name] = true
		}
	}
	for _, name := range chains.Names() {
		if !listed[name] {
			order = append(order, name)
		}
	}

	rows := make([]domain.ResultRow, 0, len(order))
	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry, _ := chains.Get(name)
		row, err := SummarizeRow(name, domain.DerivedSampleSet{
			IDeg:     propagation.InclinationSeries(entry.Samples),
			BOcc:     entry.BOccSamples,
			TEclipse: entry.TEclipseSamples,
		})
		if err != nil {
			return nil, fmt.Errorf("system %s: %w", name, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// RebuildResults loads the chain archive, recomputes every summary and
// overwrites repo with the result.
func RebuildResults(ctx context.Context, archive ports.ChainArchive, repo ports.ResultsRepository) (int, error) {
	chains := chainstore.New(archive)
	if err := chains.Load(ctx); err != nil {
		return 0, err
	}

	previous, err := repo.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load results: %w", err)
	}

	rows, err := Resummarize(ctx, chains, previous)
	if err != nil {
		return 0, err
	}
	if err := repo.Save(ctx, rows); err != nil {
		return 0, fmt.Errorf("save results: %w", err)
	}
	return len(rows), nil
}

// ChainReport describes the stored draws of one system.
type ChainReport struct {
	Name     string
	Samples  int
	AOverRs  domain.SummaryRecord
	CosI     domain.SummaryRecord
	E        domain.SummaryRecord
	Omega    domain.SummaryRecord
	BOcc     domain.SummaryRecord
	TEclipse domain.SummaryRecord
}

// InspectChain summarizes every stored column of one system.
func InspectChain(chains *chainstore.Store, name string) (ChainReport, error) {
	entry, ok := chains.Get(name)
	if !ok {
		return ChainReport{}, fmt.Errorf("no chain stored for %s", name)
	}

	n := len(entry.Samples)
	cols := [4][]float64{make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)}
	for i, s := range entry.Samples {
		cols[0][i], cols[1][i], cols[2][i], cols[3][i] = s.AOverRs, s.CosI, s.E, s.Omega
	}

	report := ChainReport{Name: name, Samples: n}
	targets := []*domain.SummaryRecord{&report.AOverRs, &report.CosI, &report.E, &report.Omega, &report.BOcc, &report.TEclipse}
	values := [][]float64{cols[0], cols[1], cols[2], cols[3], entry.BOccSamples, entry.TEclipseSamples}
	for i, target := range targets {
		rec, err := stats.Summarize(values[i])
		if err != nil {
			return ChainReport{}, fmt.Errorf("inspect %s: %w", name, err)
		}
		*target = rec
	}
	return report, nil
}
