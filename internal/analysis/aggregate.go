// Package analysis reduces daily station tables to seasonal aggregates,
// resolves per-season climatological baselines, and composes temperature
// anomaly series. Nothing in this package returns an error: missing data
// conditions propagate as undefined (nil) values for consumers to filter.
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/couchcryptid/station-climate/internal/domain"
)

// percentiles for the extreme-day counts, computed over a station's full
// history rather than per group.
const (
	hotDayQuantile  = 0.90
	coldDayQuantile = 0.10
)

type seasonKey struct {
	year   int
	season domain.Season
}

type seasonGroup struct {
	means   []float64
	maxs    []float64
	mins    []float64
	precips []float64
}

// Aggregate groups a daily table by (season-year, season) and computes the
// summary statistics whose source variables the station actually carries. The
// output schema mirrors the input schema exactly; a statistic over an empty
// or all-missing group is nil, never zero.
func Aggregate(t domain.DailyTable) domain.SeasonalTable {
	out := domain.SeasonalTable{Station: t.Station, Schema: t.Schema}

	// Exceedance thresholds come from the station's entire history so that a
	// "hot day" means the same thing in every season-year.
	var hotThreshold, coldThreshold *float64
	if t.Schema.HasMaxTemp {
		hotThreshold = quantile(collect(t.Records, func(r domain.DailyRecord) *float64 { return r.MaxTemp }), hotDayQuantile)
	}
	if t.Schema.HasMinTemp {
		coldThreshold = quantile(collect(t.Records, func(r domain.DailyRecord) *float64 { return r.MinTemp }), coldDayQuantile)
	}

	groups := make(map[seasonKey]*seasonGroup)
	var keys []seasonKey
	for _, rec := range t.Records {
		year, season := domain.SeasonOf(rec.Date)
		k := seasonKey{year: year, season: season}
		g, ok := groups[k]
		if !ok {
			g = &seasonGroup{}
			groups[k] = g
			keys = append(keys, k)
		}
		appendDefined(&g.means, rec.MeanTemp)
		appendDefined(&g.maxs, rec.MaxTemp)
		appendDefined(&g.mins, rec.MinTemp)
		appendDefined(&g.precips, rec.Precip)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return domain.CompareSeasons(keys[i].season, keys[j].season) < 0
	})

	for _, k := range keys {
		g := groups[k]
		row := domain.SeasonalRow{Year: k.year, Season: k.season}

		if t.Schema.HasMeanTemp {
			row.MeanTemp = mean(g.means)
			row.MeanTempStd = sampleStdDev(g.means)
		}
		if t.Schema.HasMaxTemp {
			row.HotDays = countExceeding(g.maxs, hotThreshold, above)
		}
		if t.Schema.HasMinTemp {
			row.ColdDays = countExceeding(g.mins, coldThreshold, below)
		}
		if t.Schema.HasPrecip {
			row.PrecipSum = sum(g.precips)
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func collect(recs []domain.DailyRecord, get func(domain.DailyRecord) *float64) []float64 {
	var vals []float64
	for _, r := range recs {
		appendDefined(&vals, get(r))
	}
	return vals
}

func appendDefined(dst *[]float64, v *float64) {
	if v != nil {
		*dst = append(*dst, *v)
	}
}

// quantile computes an empirical quantile over vals, nil when there is no
// defined history at all.
func quantile(vals []float64, q float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	return domain.Float(stat.Quantile(q, stat.Empirical, sorted, nil))
}

func mean(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	return domain.Float(stat.Mean(vals, nil))
}

// sampleStdDev is nil for fewer than two values: a single observation has no
// sample spread.
func sampleStdDev(vals []float64) *float64 {
	if len(vals) < 2 {
		return nil
	}
	return domain.Float(stat.StdDev(vals, nil))
}

func sum(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return domain.Float(total)
}

type direction int

const (
	above direction = iota
	below
)

// countExceeding counts group values past the station-wide threshold. The
// count is nil only when the threshold itself is undefined; a group whose
// values are all missing counts zero exceedances.
func countExceeding(vals []float64, threshold *float64, dir direction) *int {
	if threshold == nil {
		return nil
	}
	n := 0
	for _, v := range vals {
		if (dir == above && v > *threshold) || (dir == below && v < *threshold) {
			n++
		}
	}
	return domain.Int(n)
}
