// Package results holds the append-only table of per-system summaries.
package results

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"EclipseCast/internal/domain"
	"EclipseCast/internal/ports"
)

// ErrDuplicate is returned when a system is appended twice.
var ErrDuplicate = errors.New("results: system already recorded")

// Table is the ordered, identifier-keyed results table of one run.
type Table struct {
	repo ports.ResultsRepository

	mu      sync.RWMutex
	rows    []domain.ResultRow
	index   map[string]int
	flushes int
}

// NewTable creates an empty table backed by repo.
func NewTable(repo ports.ResultsRepository) *Table {
	return &Table{repo: repo, index: map[string]int{}}
}

// Load replaces the table with the repository content.
func (t *Table) Load(ctx context.Context) error {
	if t.repo == nil {
		return nil
	}

	rows, err := t.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load results: %w", err)
	}

	index := make(map[string]int, len(rows))
	for i, row := range rows {
		if _, dup := index[row.Name]; dup {
			return fmt.Errorf("load results: %w: %s", ErrDuplicate, row.Name)
		}
		index[row.Name] = i
	}

	t.mu.Lock()
	t.rows = rows
	t.index = index
	t.mu.Unlock()
	return nil
}

// Has reports whether name is already recorded.
func (t *Table) Has(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.index[name]
	return ok
}

// Append records a new row.
func (t *Table) Append(row domain.ResultRow) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.index[row.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, row.Name)
	}
	t.index[row.Name] = len(t.rows)
	t.rows = append(t.rows, row)
	return nil
}

// Rows returns a copy of the rows in recorded order.
func (t *Table) Rows() []domain.ResultRow {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]domain.ResultRow(nil), t.rows...)
}

// Len returns the row count.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Flush overwrites the repository with the current rows.
func (t *Table) Flush(ctx context.Context) error {
	rows := t.Rows()
	if t.repo != nil {
		if err := t.repo.Save(ctx, rows); err != nil {
			return fmt.Errorf("flush results: %w", err)
		}
	}

	t.mu.Lock()
	t.flushes++
	t.mu.Unlock()
	return nil
}

// Flushes reports how many successful flushes this table has performed.
func (t *Table) Flushes() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.flushes
}
