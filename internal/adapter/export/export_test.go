package export_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/station-climate/internal/adapter/export"
	"github.com/couchcryptid/station-climate/internal/domain"
	"github.com/couchcryptid/station-climate/internal/pipeline"
)

func testResult(code string) *domain.StationResult {
	station := domain.Station{
		Code:          code,
		Name:          "Estacion " + code,
		Latitude:      domain.Float(-41.1),
		Longitude:     domain.Float(-71.3),
		CoverageStart: time.Date(1961, 1, 1, 0, 0, 0, 0, time.UTC),
		CoverageEnd:   time.Date(1990, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	schema := domain.Schema{HasMeanTemp: true, HasPrecip: true}

	return &domain.StationResult{
		Station: station,
		Seasonal: domain.SeasonalTable{
			Station: station,
			Schema:  schema,
			Rows: []domain.SeasonalRow{
				{Year: 1970, Season: domain.Summer, MeanTemp: domain.Float(21.5), PrecipSum: domain.Float(30)},
				{Year: 1970, Season: domain.Winter, PrecipSum: domain.Float(120)},
			},
		},
		Normals:        domain.Normals{domain.Summer: 20.0},
		BaselineSource: domain.BaselineReference,
		Anomalies: []domain.AnomalyRow{
			{Year: 1970, Season: domain.Summer, MeanTemp: domain.Float(21.5), Baseline: domain.Float(20.0), Anomaly: domain.Float(1.5)},
			{Year: 1970, Season: domain.Winter},
		},
	}
}

func undefinedResult(code string) *domain.StationResult {
	r := testResult(code)
	r.Normals = domain.Normals{}
	r.BaselineSource = domain.BaselineNone
	r.Anomalies = []domain.AnomalyRow{
		{Year: 1970, Season: domain.Summer, MeanTemp: domain.Float(21.5)},
		{Year: 1970, Season: domain.Winter},
	}
	return r
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestWriteBatch(t *testing.T) {
	dir := t.TempDir()
	w := export.NewWriter(dir, slog.Default())

	batch := &pipeline.Batch{Stations: map[string]*domain.StationResult{
		"SA0001": testResult("SA0001"),
	}}
	require.NoError(t, w.WriteBatch(batch))

	t.Run("stations table", func(t *testing.T) {
		content := readFile(t, dir, "stations.csv")
		lines := strings.Split(strings.TrimSpace(content), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "code,name,latitude,longitude,altitude,coverage_start,coverage_end", lines[0])
		assert.Contains(t, lines[1], "SA0001")
		assert.Contains(t, lines[1], "-41.1")
	})

	t.Run("seasonal table mirrors schema", func(t *testing.T) {
		content := readFile(t, dir, "SA0001_seasonal.csv")
		lines := strings.Split(strings.TrimSpace(content), "\n")
		// No max/min temp in the schema: no hot_days or cold_days columns.
		assert.Equal(t, "year,season,mean_temp,mean_temp_std,precip_sum,anomaly", lines[0])
		require.Len(t, lines, 3)
		assert.Contains(t, lines[1], "summer")
		assert.Contains(t, lines[1], "1.5")
	})

	t.Run("regional anomaly table", func(t *testing.T) {
		content := readFile(t, dir, "anomalies.csv")
		lines := strings.Split(strings.TrimSpace(content), "\n")
		assert.Equal(t, "station,year,season,mean_temp,baseline,anomaly", lines[0])
		// Both the defined summer row and the undefined winter row are kept.
		require.Len(t, lines, 3)
	})
}

func TestWriteBatch_SkipsAllUndefinedStationsInRegionalTable(t *testing.T) {
	dir := t.TempDir()
	w := export.NewWriter(dir, slog.Default())

	batch := &pipeline.Batch{Stations: map[string]*domain.StationResult{
		"SA0001": testResult("SA0001"),
		"SA0002": undefinedResult("SA0002"),
	}}
	require.NoError(t, w.WriteBatch(batch))

	content := readFile(t, dir, "anomalies.csv")
	assert.Contains(t, content, "SA0001")
	assert.NotContains(t, content, "SA0002")

	// The station itself is still exported everywhere else.
	assert.FileExists(t, filepath.Join(dir, "SA0002_seasonal.csv"))
	assert.Contains(t, readFile(t, dir, "stations.csv"), "SA0002")
}

func TestWriteBatch_CreatesExportDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w := export.NewWriter(dir, slog.Default())

	batch := &pipeline.Batch{Stations: map[string]*domain.StationResult{
		"SA0001": testResult("SA0001"),
	}}
	require.NoError(t, w.WriteBatch(batch))
	assert.DirExists(t, dir)
}
