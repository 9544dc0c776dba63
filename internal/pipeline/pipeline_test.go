package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/station-climate/internal/analysis"
	"github.com/couchcryptid/station-climate/internal/domain"
	"github.com/couchcryptid/station-climate/internal/observability"
	"github.com/couchcryptid/station-climate/internal/pipeline"
)

// --- fakes ---

type fakeSource struct {
	files   map[string][]byte
	listErr error
}

func (s *fakeSource) List(_ context.Context) ([]string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *fakeSource) Read(_ context.Context, name string) ([]byte, error) {
	data, ok := s.files[name]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", name)
	}
	return data, nil
}

// --- fixture builders ---

func stationFile(code string, rows ...string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "CODIGO: %s\n", code)
	fmt.Fprintf(&b, "NOMBRE: Estacion %s\n", code)
	b.WriteString("LATITUD: -40,0\nLONGITUD: -70,0\n\n")
	b.WriteString("Fecha;TMED\n")
	b.WriteString(strings.Join(rows, "\n"))
	b.WriteString("\n")
	return []byte(b.String())
}

// yearlyJanuaryRows emits one defined summer record per year in [from, to].
func yearlyJanuaryRows(from, to int) []string {
	var rows []string
	for y := from; y <= to; y++ {
		rows = append(rows, fmt.Sprintf("%d-01-15;%d,0", y, 15+y%5))
	}
	return rows
}

func testConfig() analysis.BaselineConfig {
	return analysis.BaselineConfig{ReferenceStart: 1961, ReferenceEnd: 1990, FallbackYears: 10}
}

func newPipeline(src pipeline.Source, workers int) *pipeline.Pipeline {
	return pipeline.New(src, testConfig(), workers, slog.Default(), observability.NewMetricsForTesting())
}

// --- tests ---

func TestRun_HappyPath(t *testing.T) {
	src := &fakeSource{files: map[string][]byte{
		"SA0001_daily.csv": stationFile("SA0001", yearlyJanuaryRows(1961, 1995)...),
		"SA0002_daily.csv": stationFile("SA0002", yearlyJanuaryRows(1961, 1995)...),
	}}
	p := newPipeline(src, 2)

	batch, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, batch.Stations, 2)
	assert.Empty(t, batch.Failures)
	assert.NoError(t, p.CheckReadiness(context.Background()))

	result := batch.Stations["SA0001"]
	require.NotNil(t, result)
	assert.Equal(t, domain.BaselineReference, result.BaselineSource)
	assert.NotEmpty(t, result.Anomalies)
}

func TestRun_MalformedFileIsIsolated(t *testing.T) {
	src := &fakeSource{files: map[string][]byte{
		"SA0001_daily.csv": stationFile("SA0001", yearlyJanuaryRows(1961, 1970)...),
		"SA0002_daily.csv": []byte("CODIGO: SA0002\nno separator here"),
		"SA0003_daily.csv": stationFile("SA0003", yearlyJanuaryRows(1961, 1970)...),
	}}
	p := newPipeline(src, 2)

	batch, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, batch.Stations, 2)
	require.Len(t, batch.Failures, 1)
	assert.Equal(t, "SA0002_daily.csv", batch.Failures[0].File)
	assert.Contains(t, batch.Failures[0].Reason, "missing block separator")
}

func TestRun_FailureTimestampUsesClock(t *testing.T) {
	fixed := time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(fixed))
	defer domain.SetClock(nil)

	src := &fakeSource{files: map[string][]byte{
		"bad.csv": []byte("no separator"),
	}}
	p := newPipeline(src, 1)

	batch, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, batch.Failures, 1)
	assert.Equal(t, fixed, batch.Failures[0].At)
}

func TestRun_ReferenceAndFallbackStationsMerge(t *testing.T) {
	// Station X covers the official reference period; station Y has only
	// 2010-2014, exactly enough for the fallback window.
	xRows := yearlyJanuaryRows(1960, 1995)
	// One winter record with a missing mean: yields a row whose anomaly is
	// undefined because winter never accumulates a baseline.
	xRows = append(xRows, "1980-06-15;null")

	src := &fakeSource{files: map[string][]byte{
		"SA000X_daily.csv": stationFile("SA000X", xRows...),
		"SA000Y_daily.csv": stationFile("SA000Y", yearlyJanuaryRows(2010, 2014)...),
	}}
	p := newPipeline(src, 2)

	batch, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, batch.Stations, 2)
	assert.Empty(t, batch.Failures)

	x := batch.Stations["SA000X"]
	assert.Equal(t, domain.BaselineReference, x.BaselineSource)

	y := batch.Stations["SA000Y"]
	assert.Equal(t, domain.BaselineFallback, y.BaselineSource)

	// Merging the two anomaly tables includes both defined and undefined
	// rows without raising.
	var defined, undefined int
	for _, result := range batch.Stations {
		for _, row := range result.Anomalies {
			if row.Anomaly != nil {
				defined++
			} else {
				undefined++
			}
		}
	}
	assert.Positive(t, defined)
	assert.Positive(t, undefined)
}

func TestRun_ListFailure(t *testing.T) {
	src := &fakeSource{listErr: errors.New("disk gone")}
	p := newPipeline(src, 1)

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list station files")
}

func TestRun_ContextCancelled(t *testing.T) {
	src := &fakeSource{files: map[string][]byte{
		"SA0001_daily.csv": stationFile("SA0001", yearlyJanuaryRows(1961, 1970)...),
	}}
	p := newPipeline(src, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheckReadiness_NotReadyBeforeRun(t *testing.T) {
	p := newPipeline(&fakeSource{}, 1)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestSnapshot(t *testing.T) {
	src := &fakeSource{files: map[string][]byte{
		"SA0001_daily.csv": stationFile("SA0001", yearlyJanuaryRows(1961, 1970)...),
		"bad.csv":          []byte("no separator"),
	}}
	p := newPipeline(src, 1)

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	snap := p.Snapshot()
	assert.Equal(t, 2, snap.Total)
	assert.Equal(t, 1, snap.Processed)
	assert.Equal(t, 1, snap.Failed)
}
