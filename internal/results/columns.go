package results

import (
	"fmt"
	"strconv"
	"strings"

	"EclipseCast/internal/domain"
)

// Quantity prefixes, in column order.
var Quantities = []string{"i_deg", "b_occ", "t_eclipse"}

var fieldSuffixes = []string{"median", "16", "84", "std", "err_lower", "err_upper", "quantiles"}

// Header returns the column names of the flat results layout.
func Header() []string {
	cols := []string{"name"}
	for _, q := range Quantities {
		for _, f := range fieldSuffixes {
			cols = append(cols, q+"_"+f)
		}
	}
	return cols
}

// Record flattens a row into strings matching Header.
func Record(row domain.ResultRow) []string {
	out := []string{row.Name}
	for _, rec := range summaries(&row) {
		out = append(out,
			formatFloat(rec.Median),
			formatFloat(rec.P16),
			formatFloat(rec.P84),
			formatFloat(rec.Std),
			formatFloat(rec.ErrLower),
			formatFloat(rec.ErrUpper),
			FormatQuantiles(rec.Quantiles),
		)
	}
	return out
}

// ParseRecord is the inverse of Record.
func ParseRecord(fields []string) (domain.ResultRow, error) {
	want := 1 + len(Quantities)*len(fieldSuffixes)
	if len(fields) != want {
		return domain.ResultRow{}, fmt.Errorf("expected %d fields, got %d", want, len(fields))
	}

	row := domain.ResultRow{Name: fields[0]}
	if row.Name == "" {
		return domain.ResultRow{}, fmt.Errorf("empty system name")
	}

	for qi, rec := range summaries(&row) {
		base := 1 + qi*len(fieldSuffixes)
		targets := []*float64{&rec.Median, &rec.P16, &rec.P84, &rec.Std, &rec.ErrLower, &rec.ErrUpper}
		for fi, target := range targets {
			v, err := strconv.ParseFloat(fields[base+fi], 64)
			if err != nil {
				return domain.ResultRow{}, fmt.Errorf("%s_%s: %w", Quantities[qi], fieldSuffixes[fi], err)
			}
			*target = v
		}
		q, err := ParseQuantiles(fields[base+len(targets)])
		if err != nil {
			return domain.ResultRow{}, fmt.Errorf("%s_quantiles: %w", Quantities[qi], err)
		}
		rec.Quantiles = q
	}
	return row, nil
}

// FormatQuantiles joins the grid with commas at 6 decimal digits.
func FormatQuantiles(q []float64) string {
	parts := make([]string, len(q))
	for i, v := range q {
		parts[i] = strconv.FormatFloat(v, 'f', 6, 64)
	}
	return strings.Join(parts, ",")
}

// ParseQuantiles splits a FormatQuantiles field.
func ParseQuantiles(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func summaries(row *domain.ResultRow) []*domain.SummaryRecord {
	return []*domain.SummaryRecord{&row.IDeg, &row.BOcc, &row.TEclipse}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
