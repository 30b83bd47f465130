package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"EclipseCast/internal/domain"
	"EclipseCast/internal/ports"
	"EclipseCast/internal/results"
)

const resultsTable = "results"

// SQLiteResults keeps the results table in a SQLite database.
// Scalars are stored as REAL so they reload bit-for-bit.
type SQLiteResults struct {
	db *sql.DB
}

var _ ports.ResultsRepository = (*SQLiteResults)(nil)

// OpenSQLiteResults opens (or creates) the database at path and ensures the schema.
func OpenSQLiteResults(ctx context.Context, path string) (*SQLiteResults, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	for _, stmt := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		createResultsSQL(),
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %q: %w", stmt, err)
		}
	}

	return &SQLiteResults{db: db}, nil
}

// Close releases the database handle.
func (r *SQLiteResults) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Load returns rows in recorded order.
func (r *SQLiteResults) Load(ctx context.Context) ([]domain.ResultRow, error) {
	query, args, err := sq.Select(results.Header()...).
		From(resultsTable).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []domain.ResultRow
	for rows.Next() {
		row, err := scanResultRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return out, nil
}

// Save replaces the table content inside one transaction.
func (r *SQLiteResults) Save(ctx context.Context, rows []domain.ResultRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	del, args, err := sq.Delete(resultsTable).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, del, args...); err != nil {
		return fmt.Errorf("clear results: %w", err)
	}

	columns := append([]string{"position"}, results.Header()...)
	for i, row := range rows {
		query, args, err := sq.Insert(resultsTable).
			Columns(columns...).
			Values(append([]any{i}, resultValues(row)...)...).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert %s: %w", row.Name, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s: %w", row.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func createResultsSQL() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS " + resultsTable + " (\n")
	b.WriteString("  position INTEGER NOT NULL,\n")
	b.WriteString("  name TEXT PRIMARY KEY")
	for _, col := range results.Header()[1:] {
		kind := "REAL"
		if strings.HasSuffix(col, "_quantiles") {
			kind = "TEXT"
		}
		fmt.Fprintf(&b, ",\n  %s %s NOT NULL", col, kind)
	}
	b.WriteString("\n)")
	return b.String()
}

func resultValues(row domain.ResultRow) []any {
	values := []any{row.Name}
	for _, rec := range []domain.SummaryRecord{row.IDeg, row.BOcc, row.TEclipse} {
		values = append(values,
			rec.Median, rec.P16, rec.P84, rec.Std, rec.ErrLower, rec.ErrUpper,
			results.FormatQuantiles(rec.Quantiles),
		)
	}
	return values
}

func scanResultRow(rows *sql.Rows) (domain.ResultRow, error) {
	var row domain.ResultRow
	var quantiles [3]string

	dest := []any{&row.Name}
	for i, rec := range []*domain.SummaryRecord{&row.IDeg, &row.BOcc, &row.TEclipse} {
		dest = append(dest,
			&rec.Median, &rec.P16, &rec.P84, &rec.Std, &rec.ErrLower, &rec.ErrUpper,
			&quantiles[i],
		)
	}
	if err := rows.Scan(dest...); err != nil {
		return domain.ResultRow{}, fmt.Errorf("scan result: %w", err)
	}

	for i, rec := range []*domain.SummaryRecord{&row.IDeg, &row.BOcc, &row.TEclipse} {
		q, err := results.ParseQuantiles(quantiles[i])
		if err != nil {
			return domain.ResultRow{}, fmt.Errorf("parse %s quantiles for %s: %w", results.Quantities[i], row.Name, err)
		}
		rec.Quantiles = q
	}
	return row, nil
}
