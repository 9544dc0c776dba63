// Package export writes a finished batch to CSV hand-off tables for the
// external plotting and trend-analysis collaborators: one seasonal table per
// station, a combined regional anomaly table, and the station metadata table.
package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/station-climate/internal/domain"
	"github.com/couchcryptid/station-climate/internal/pipeline"
)

// Writer exports batch results as CSV files under one directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// WriteBatch writes stations.csv, anomalies.csv, and one <code>_seasonal.csv
// per station. Stations whose anomaly series is entirely undefined are left
// out of the regional table with a diagnostic, not an error.
func (w *Writer) WriteBatch(batch *pipeline.Batch) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	codes := make([]string, 0, len(batch.Stations))
	for code := range batch.Stations {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	if err := w.writeStations(codes, batch); err != nil {
		return err
	}
	if err := w.writeAnomalies(codes, batch); err != nil {
		return err
	}
	for _, code := range codes {
		if err := w.writeSeasonal(batch.Stations[code]); err != nil {
			return err
		}
	}
	return nil
}

// writeStations emits the station metadata table used by the external mapping
// component for geospatial point construction.
func (w *Writer) writeStations(codes []string, batch *pipeline.Batch) error {
	n := len(codes)
	names := make([]string, n)
	lats := make([]string, n)
	lons := make([]string, n)
	alts := make([]string, n)
	starts := make([]string, n)
	ends := make([]string, n)

	for i, code := range codes {
		st := batch.Stations[code].Station
		names[i] = st.Name
		lats[i] = fmtFloat(st.Latitude)
		lons[i] = fmtFloat(st.Longitude)
		alts[i] = fmtFloat(st.Altitude)
		starts[i] = st.CoverageStart.Format("2006-01-02")
		ends[i] = st.CoverageEnd.Format("2006-01-02")
	}

	df := dataframe.New(
		series.New(codes, series.String, "code"),
		series.New(names, series.String, "name"),
		series.New(lats, series.String, "latitude"),
		series.New(lons, series.String, "longitude"),
		series.New(alts, series.String, "altitude"),
		series.New(starts, series.String, "coverage_start"),
		series.New(ends, series.String, "coverage_end"),
	)
	return w.writeFrame(df, "stations.csv")
}

// writeAnomalies emits the combined regional anomaly table.
func (w *Writer) writeAnomalies(codes []string, batch *pipeline.Batch) error {
	var stations, years, seasons, means, baselines, anomalies []string

	for _, code := range codes {
		result := batch.Stations[code]
		if !anyDefined(result.Anomalies) {
			w.logger.Warn("station has no defined anomalies, skipping in regional table",
				"code", code, "baseline", result.BaselineSource)
			continue
		}
		for _, row := range result.Anomalies {
			stations = append(stations, code)
			years = append(years, strconv.Itoa(row.Year))
			seasons = append(seasons, string(row.Season))
			means = append(means, fmtFloat(row.MeanTemp))
			baselines = append(baselines, fmtFloat(row.Baseline))
			anomalies = append(anomalies, fmtFloat(row.Anomaly))
		}
	}

	df := dataframe.New(
		series.New(stations, series.String, "station"),
		series.New(years, series.String, "year"),
		series.New(seasons, series.String, "season"),
		series.New(means, series.String, "mean_temp"),
		series.New(baselines, series.String, "baseline"),
		series.New(anomalies, series.String, "anomaly"),
	)
	return w.writeFrame(df, "anomalies.csv")
}

// writeSeasonal emits one station's seasonal aggregate joined with its
// anomaly series. Columns mirror the station's schema: a variable the station
// never reported produces no column at all.
func (w *Writer) writeSeasonal(result *domain.StationResult) error {
	rows := result.Seasonal.Rows
	schema := result.Seasonal.Schema
	n := len(rows)

	years := make([]string, n)
	seasons := make([]string, n)
	for i, r := range rows {
		years[i] = strconv.Itoa(r.Year)
		seasons[i] = string(r.Season)
	}

	cols := []series.Series{
		series.New(years, series.String, "year"),
		series.New(seasons, series.String, "season"),
	}

	if schema.HasMeanTemp {
		cols = append(cols,
			column(rows, "mean_temp", func(r domain.SeasonalRow) string { return fmtFloat(r.MeanTemp) }),
			column(rows, "mean_temp_std", func(r domain.SeasonalRow) string { return fmtFloat(r.MeanTempStd) }),
		)
	}
	if schema.HasMaxTemp {
		cols = append(cols, column(rows, "hot_days", func(r domain.SeasonalRow) string { return fmtInt(r.HotDays) }))
	}
	if schema.HasMinTemp {
		cols = append(cols, column(rows, "cold_days", func(r domain.SeasonalRow) string { return fmtInt(r.ColdDays) }))
	}
	if schema.HasPrecip {
		cols = append(cols, column(rows, "precip_sum", func(r domain.SeasonalRow) string { return fmtFloat(r.PrecipSum) }))
	}
	if schema.HasMeanTemp {
		anomalies := make([]string, n)
		for i, a := range result.Anomalies {
			if i < n {
				anomalies[i] = fmtFloat(a.Anomaly)
			}
		}
		cols = append(cols, series.New(anomalies, series.String, "anomaly"))
	}

	return w.writeFrame(dataframe.New(cols...), result.Station.Code+"_seasonal.csv")
}

func (w *Writer) writeFrame(df dataframe.DataFrame, name string) error {
	if df.Error() != nil {
		return fmt.Errorf("build %s: %w", name, df.Error())
	}

	path := filepath.Join(w.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	if err := df.WriteCSV(f); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	w.logger.Debug("exported table", "file", path, "rows", df.Nrow())
	return nil
}

func column(rows []domain.SeasonalRow, name string, get func(domain.SeasonalRow) string) series.Series {
	vals := make([]string, len(rows))
	for i, r := range rows {
		vals[i] = get(r)
	}
	return series.New(vals, series.String, name)
}

func anyDefined(rows []domain.AnomalyRow) bool {
	for _, r := range rows {
		if r.Anomaly != nil {
			return true
		}
	}
	return false
}

// fmtFloat renders an optional value; undefined is an empty cell.
func fmtFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func fmtInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
