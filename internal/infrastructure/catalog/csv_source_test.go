package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `name,a_over_rs,inclination,period,period_err_lower,period_err_upper,transit_midtime,transit_midtime_err_lower,transit_midtime_err_upper,eccentricity,omega
WASP-121 b,3.8,89.1,1.2749,-0.0000002,0.0000003,8000.5,,,0.0,
HAT-P-7 b,4.15,83.1,2.2047,0,0,5000.1,-0.0002,0.0003,0.01,120
no-period b,5.0,88,,0,0,1000,0.001,0.001,,
no-ars b,,88,3.0,0,0,1000,0.001,0.001,,
WASP-121 b,9.9,80,9.9,0,0,1.0,0,0,,
negative b,5.0,88,-1,0,0,1000,0.001,0.001,,
`

func TestParseCatalog(t *testing.T) {
	t.Parallel()

	profiles, err := NewCSVSource("", nil).Parse(context.Background(), strings.NewReader(sampleCatalog))
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	wasp := profiles[0]
	assert.Equal(t, "WASP-121 b", wasp.Name)
	assert.Equal(t, 3.8, wasp.AOverRs.Value)
	assert.Equal(t, 2e-7, wasp.Period.ErrLower)
	assert.Equal(t, 3e-7, wasp.Period.ErrUpper)
	assert.Equal(t, DefaultMidtimeErr, wasp.TransitMidtime.ErrLower)
	assert.Equal(t, DefaultMidtimeErr, wasp.TransitMidtime.ErrUpper)
	assert.Equal(t, 90.0, wasp.Omega.Value)

	hat := profiles[1]
	assert.Equal(t, "HAT-P-7 b", hat.Name)
	assert.InDelta(t, 2.2047e-6, hat.Period.ErrLower, 1e-18)
	assert.InDelta(t, 2.2047e-6, hat.Period.ErrUpper, 1e-18)
	assert.Equal(t, 0.0002, hat.TransitMidtime.ErrLower)
	assert.Equal(t, 0.0003, hat.TransitMidtime.ErrUpper)
	assert.Equal(t, 120.0, hat.Omega.Value)
	assert.Equal(t, 0.01, hat.Eccentricity.Value)
}

func TestParseCatalogAliases(t *testing.T) {
	t.Parallel()

	raw := "Planet Name,a_over_rs,inclination,Planet Period [days],Transit Mid Time [days],Transit Mid Time Error Lower [days],Transit Mid Time Error Upper [days]\n" +
		"KELT-9 b,3.2,86.8,1.4811,7000.2,-0.0001,0.0002\n"

	profiles, err := NewCSVSource("", nil).Parse(context.Background(), strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "KELT-9 b", profiles[0].Name)
	assert.Equal(t, 1.4811, profiles[0].Period.Value)
	assert.Equal(t, 0.0001, profiles[0].TransitMidtime.ErrLower)
}

func TestParseCatalogWithoutNameColumn(t *testing.T) {
	t.Parallel()

	_, err := NewCSVSource("", nil).Parse(context.Background(), strings.NewReader("period\n1\n"))
	require.Error(t, err)
}

func TestBuildProfileReasons(t *testing.T) {
	t.Parallel()

	base := MapRow{"name": "x", "a_over_rs": "5", "inclination": "88", "period": "2", "transit_midtime": "10"}
	_, reason := BuildProfile(base)
	assert.Empty(t, reason)

	for _, col := range []string{"a_over_rs", "inclination", "period", "transit_midtime"} {
		row := MapRow{}
		for k, v := range base {
			row[k] = v
		}
		row[col] = "nan"
		_, reason := BuildProfile(row)
		assert.Equal(t, "missing "+col, reason)
	}

	_, reason = BuildProfile(MapRow{"a_over_rs": "5"})
	assert.Equal(t, "missing name", reason)
}

func TestSystemsReadsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))

	profiles, err := NewCSVSource(path, nil).Systems(context.Background())
	require.NoError(t, err)
	assert.Len(t, profiles, 2)

	_, err = NewCSVSource(filepath.Join(t.TempDir(), "missing.csv"), nil).Systems(context.Background())
	require.Error(t, err)
}
