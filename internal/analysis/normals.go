package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/couchcryptid/station-climate/internal/domain"
)

// MinBaselineYears is the minimum count of distinct contributing years a
// period needs before its baseline is considered defined. Fewer years would
// fabricate a baseline from noise, so the resolver refuses instead.
const MinBaselineYears = 5

// BaselineConfig selects the climatology reference period and the fallback
// window used when the reference period has insufficient data.
type BaselineConfig struct {
	// ReferenceStart and ReferenceEnd bound the canonical reference period,
	// inclusive, in season-years.
	ReferenceStart int
	ReferenceEnd   int

	// FallbackYears is the length of the earliest-available-years window
	// tried when the reference period falls short.
	FallbackYears int
}

// Normals resolves a station's per-season baseline mean temperature from its
// own seasonal aggregate history.
//
// Policy, first match wins:
//  1. No mean-temperature field in the schema: every season undefined.
//  2. Rows inside the reference period with a defined mean, if they span at
//     least MinBaselineYears distinct years: per-season mean over that set.
//  3. Otherwise a window of FallbackYears starting at the station's earliest
//     year, under the same distinct-years threshold.
//  4. Otherwise every season undefined.
//
// Stations with short operational histories cannot use the multi-decade
// reference period; the fallback preserves comparability while refusing to
// invent a baseline from too few years.
func Normals(t domain.SeasonalTable, cfg BaselineConfig) (domain.Normals, domain.BaselineSource) {
	if !t.Schema.HasMeanTemp {
		return domain.Normals{}, domain.BaselineNone
	}

	ref := rowsInYears(t.Rows, cfg.ReferenceStart, cfg.ReferenceEnd)
	if distinctYears(ref) >= MinBaselineYears {
		return seasonMeans(ref), domain.BaselineReference
	}

	if minYear, ok := earliestYear(t.Rows); ok && cfg.FallbackYears > 0 {
		window := rowsInYears(t.Rows, minYear, minYear+cfg.FallbackYears-1)
		if distinctYears(window) >= MinBaselineYears {
			return seasonMeans(window), domain.BaselineFallback
		}
	}

	return domain.Normals{}, domain.BaselineNone
}

// rowsInYears selects rows with a defined mean temperature inside [from, to].
func rowsInYears(rows []domain.SeasonalRow, from, to int) []domain.SeasonalRow {
	var out []domain.SeasonalRow
	for _, r := range rows {
		if r.MeanTemp != nil && r.Year >= from && r.Year <= to {
			out = append(out, r)
		}
	}
	return out
}

func distinctYears(rows []domain.SeasonalRow) int {
	years := make(map[int]struct{}, len(rows))
	for _, r := range rows {
		years[r.Year] = struct{}{}
	}
	return len(years)
}

func earliestYear(rows []domain.SeasonalRow) (int, bool) {
	found := false
	minYear := 0
	for _, r := range rows {
		if !found || r.Year < minYear {
			minYear = r.Year
			found = true
		}
	}
	return minYear, found
}

// seasonMeans averages the selected rows' mean temperature per season. A
// season with no contributing rows is simply absent.
func seasonMeans(rows []domain.SeasonalRow) domain.Normals {
	bySeason := make(map[domain.Season][]float64)
	for _, r := range rows {
		bySeason[r.Season] = append(bySeason[r.Season], *r.MeanTemp)
	}

	normals := make(domain.Normals, len(bySeason))
	for season, vals := range bySeason {
		normals[season] = stat.Mean(vals, nil)
	}
	return normals
}
