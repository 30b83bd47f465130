package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"EclipseCast/internal/domain"
	"EclipseCast/internal/ports"
)

const (
	// DefaultMidtimeErr is used when both transit-midtime errors are zero or missing (days).
	DefaultMidtimeErr = 0.001
	// DefaultPeriodRelErr scales the period when both period errors are zero or missing.
	DefaultPeriodRelErr = 1e-6

	defaultOmega = 90.0
)

// column aliases accepted in catalog headers; canonical names come first.
var aliases = map[string][]string{
	"name":                      {"name", "planet name"},
	"transit_midtime":           {"transit_midtime", "transit mid time [days]"},
	"transit_midtime_err_lower": {"transit_midtime_err_lower", "transit mid time error lower [days]"},
	"transit_midtime_err_upper": {"transit_midtime_err_upper", "transit mid time error upper [days]"},
	"period":                    {"period", "planet period [days]"},
	"period_err_lower":          {"period_err_lower", "planet period error lower [days]"},
	"period_err_upper":          {"period_err_upper", "planet period error upper [days]"},
	"a_over_rs":                 {"a_over_rs"},
	"a_over_rs_err_lower":       {"a_over_rs_err_lower"},
	"a_over_rs_err_upper":       {"a_over_rs_err_upper"},
	"inclination":               {"inclination"},
	"inclination_err_lower":     {"inclination_err_lower"},
	"inclination_err_upper":     {"inclination_err_upper"},
	"eccentricity":              {"eccentricity"},
	"eccentricity_err_lower":    {"eccentricity_err_lower"},
	"eccentricity_err_upper":    {"eccentricity_err_upper"},
	"omega":                     {"omega"},
	"omega_err_lower":           {"omega_err_lower"},
	"omega_err_upper":           {"omega_err_upper"},
}

// CSVSource reads system profiles from a CSV catalog.
type CSVSource struct {
	path   string
	logger *slog.Logger
}

var _ ports.CatalogSource = (*CSVSource)(nil)

// NewCSVSource binds a catalog file.
func NewCSVSource(path string, logger *slog.Logger) *CSVSource {
	return &CSVSource{path: path, logger: logger}
}

// Systems opens the catalog file and parses it.
func (s *CSVSource) Systems(ctx context.Context) ([]domain.SystemProfile, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return s.Parse(ctx, f)
}

// Parse reads profiles in file order, dropping rows that lack required fields
// and keeping the first row of any repeated name.
func (s *CSVSource) Parse(ctx context.Context, r io.Reader) ([]domain.SystemProfile, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	index := resolveColumns(header)
	if _, ok := index["name"]; !ok {
		return nil, fmt.Errorf("catalog has no name column")
	}

	var (
		profiles []domain.SystemProfile
		seen     = map[string]struct{}{}
		excluded int
	)
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog line %d: %w", line, err)
		}

		row := rawRow{fields: fields, index: index}
		profile, reason := BuildProfile(row)
		if reason != "" {
			excluded++
			s.debug("system excluded", "line", line, "name", row.text("name"), "reason", reason)
			continue
		}
		if _, dup := seen[profile.Name]; dup {
			s.debug("duplicate system ignored", "line", line, "name", profile.Name)
			continue
		}
		seen[profile.Name] = struct{}{}
		profiles = append(profiles, profile)
	}

	s.debug("catalog parsed", "systems", len(profiles), "excluded", excluded)
	return profiles, nil
}

// Row is a named-field view over one catalog line. The interface is sealed:
// only CSV lines read by CSVSource and MapRow implement it.
type Row interface {
	// text returns the trimmed raw value, "" when absent.
	text(col string) string
}

type rawRow struct {
	fields []string
	index  map[string]int
}

func (r rawRow) text(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// MapRow adapts a plain map (canonical column names) to Row.
type MapRow map[string]string

var (
	_ Row = rawRow{}
	_ Row = MapRow{}
)

func (m MapRow) text(col string) string {
	return strings.TrimSpace(m[col])
}

// BuildProfile turns one catalog row into a profile. A non-empty reason means
// the row must be excluded before sampling.
func BuildProfile(row Row) (domain.SystemProfile, string) {
	name := row.text("name")
	if name == "" {
		return domain.SystemProfile{}, "missing name"
	}

	required := map[string]float64{}
	for _, col := range []string{"a_over_rs", "inclination", "period", "transit_midtime"} {
		v, ok := number(row.text(col))
		if !ok {
			return domain.SystemProfile{}, "missing " + col
		}
		required[col] = v
	}
	if required["period"] <= 0 {
		return domain.SystemProfile{}, "non-positive period"
	}

	p := domain.SystemProfile{
		Name:           name,
		TransitMidtime: measurement(row, "transit_midtime", required["transit_midtime"]),
		Period:         measurement(row, "period", required["period"]),
		AOverRs:        measurement(row, "a_over_rs", required["a_over_rs"]),
		Inclination:    measurement(row, "inclination", required["inclination"]),
	}

	if e, ok := number(row.text("eccentricity")); ok {
		p.Eccentricity = measurement(row, "eccentricity", e)
	}
	p.Omega = domain.Measurement{Value: defaultOmega}
	if w, ok := number(row.text("omega")); ok {
		p.Omega = measurement(row, "omega", w)
	}

	if p.Period.ErrLower+p.Period.ErrUpper == 0 {
		p.Period.ErrLower = p.Period.Value * DefaultPeriodRelErr
		p.Period.ErrUpper = p.Period.Value * DefaultPeriodRelErr
	}
	if p.TransitMidtime.ErrLower+p.TransitMidtime.ErrUpper == 0 {
		p.TransitMidtime.ErrLower = DefaultMidtimeErr
		p.TransitMidtime.ErrUpper = DefaultMidtimeErr
	}

	return p, ""
}

func measurement(row Row, col string, value float64) domain.Measurement {
	return domain.Measurement{
		Value:    value,
		ErrLower: errorValue(row.text(col + "_err_lower")),
		ErrUpper: errorValue(row.text(col + "_err_upper")),
	}
}

// errorValue treats missing errors as zero; catalogs sign lower errors inconsistently.
func errorValue(raw string) float64 {
	v, ok := number(raw)
	if !ok {
		return 0
	}
	return math.Abs(v)
}

func number(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func resolveColumns(header []string) map[string]int {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		positions[strings.ToLower(strings.TrimSpace(h))] = i
	}

	index := map[string]int{}
	for canonical, names := range aliases {
		for _, n := range names {
			if i, ok := positions[n]; ok {
				index[canonical] = i
				break
			}
		}
	}
	return index
}

func (s *CSVSource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
