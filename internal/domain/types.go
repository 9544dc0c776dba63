package domain

import "time"

// Schema records which canonical variables a station's file actually carried.
// Stations report different instrument sets, so every downstream stage
// branches on these flags instead of assuming a uniform column set.
type Schema struct {
	HasMeanTemp bool
	HasMaxTemp  bool
	HasMinTemp  bool
	HasPrecip   bool
}

// DailyRecord is one calendar day of observations for a station. A nil field
// means the value is missing for that day: never recorded, flagged by a
// sentinel, or rejected by the physical-range filter.
type DailyRecord struct {
	Date     time.Time
	MeanTemp *float64 // degrees C
	MaxTemp  *float64 // degrees C
	MinTemp  *float64 // degrees C
	Precip   *float64 // mm, >= 0
}

// Station holds the metadata extracted from a station file's header block.
// Latitude, longitude, and altitude are nil when the header omits them or
// carries an unparseable value.
type Station struct {
	Code      string
	Name      string
	Latitude  *float64
	Longitude *float64
	Altitude  *float64

	// Coverage span of the parsed daily series, inclusive.
	CoverageStart time.Time
	CoverageEnd   time.Time
}

// DailyTable is the canonical per-station daily series produced by the parser.
// Records are ordered by date ascending; duplicate dates are kept as-is since
// aggregation is order-insensitive.
type DailyTable struct {
	Station Station
	Schema  Schema
	Records []DailyRecord
}

// SeasonalRow is one (season-year, season) aggregate for a station. A field is
// nil either because the source variable is absent from the station's schema
// or because the group had no contributing non-missing values.
type SeasonalRow struct {
	Year   int
	Season Season

	MeanTemp    *float64 // mean of daily mean temperature
	MeanTempStd *float64 // sample standard deviation, nil for fewer than 2 values
	HotDays     *int     // days with max temp above the station's p90
	ColdDays    *int     // days with min temp below the station's p10
	PrecipSum   *float64 // summed precipitation, mm
}

// SeasonalTable is a station's full seasonal aggregate history. Schema mirrors
// the daily table's schema exactly: a variable absent upstream is absent here,
// not present-as-nil.
type SeasonalTable struct {
	Station Station
	Schema  Schema
	Rows    []SeasonalRow
}

// Normals is the climatological baseline: one long-term mean temperature per
// season. A season missing from the map has no defined baseline.
type Normals map[Season]float64

// BaselineSource identifies which reference period produced a station's
// normals.
type BaselineSource string

const (
	// BaselineReference means the configured reference period had enough
	// distinct years.
	BaselineReference BaselineSource = "reference"
	// BaselineFallback means the earliest-years fallback window was used.
	BaselineFallback BaselineSource = "fallback"
	// BaselineNone means no period reached the minimum-years threshold; all
	// seasons are undefined.
	BaselineNone BaselineSource = "none"
)

// AnomalyRow joins one seasonal aggregate with the station's own baseline.
// Anomaly is MeanTemp minus Baseline, nil when either operand is nil.
type AnomalyRow struct {
	Year     int
	Season   Season
	MeanTemp *float64
	Baseline *float64
	Anomaly  *float64
}

// StationResult is the complete output of one station's pipeline run. Results
// across stations are independent; regional summaries concatenate them after
// the fact.
type StationResult struct {
	Station        Station
	Daily          DailyTable
	Seasonal       SeasonalTable
	Normals        Normals
	BaselineSource BaselineSource
	Anomalies      []AnomalyRow
	ProcessedAt    time.Time
}

// Float returns a pointer to v. Convenience for building optional fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
