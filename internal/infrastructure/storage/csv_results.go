package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"EclipseCast/internal/domain"
	"EclipseCast/internal/ports"
	"EclipseCast/internal/results"
)

// CSVResults keeps the results table as a CSV file with a header row.
type CSVResults struct {
	path string
}

var _ ports.ResultsRepository = (*CSVResults)(nil)

// NewCSVResults binds the repository to a file path.
func NewCSVResults(path string) *CSVResults {
	return &CSVResults{path: path}
}

// Load reads all rows; a missing file is an empty table.
func (r *CSVResults) Load(ctx context.Context) ([]domain.ResultRow, error) {
	raw, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !slices.Equal(header, results.Header()) {
		return nil, fmt.Errorf("unexpected results header in %s", r.path)
	}

	var rows []domain.ResultRow
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		row, err := results.ParseRecord(fields)
		if err != nil {
			return nil, fmt.Errorf("parse line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Save rewrites the whole file.
func (r *CSVResults) Save(_ context.Context, rows []domain.ResultRow) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(results.Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(results.Record(row)); err != nil {
			return fmt.Errorf("write row %s: %w", row.Name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return writeFileAtomic(r.path, buf.Bytes())
}
