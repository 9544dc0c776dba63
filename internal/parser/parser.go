// Package parser converts raw station files into canonical daily tables.
//
// A station file is a KEY: VALUE metadata block and a semicolon-delimited
// daily table separated by one blank line. The parser tolerates the archive's
// two encodings, its header-spelling generations, comma decimals, and its
// missing-value sentinels. Structural defects (no block separator, no usable
// dates) fail the file with a *ParseError; everything else degrades to
// missing values.
package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/couchcryptid/station-climate/internal/domain"
)

// Structural failure causes. Both are fatal to the one file only; batch
// callers record them and move on.
var (
	ErrMissingSeparator = errors.New("missing block separator")
	ErrUnparseableDates = errors.New("unparseable dates")
)

// ParseError reports a structurally unrecoverable station file.
type ParseError struct {
	File   string
	Reason error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.File, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Reason }

// physical plausibility bounds; values at or outside are treated as missing.
const (
	minPlausibleTemp = -50.0
	maxPlausibleTemp = 50.0
)

// Parse converts one raw station file into a canonical daily table plus
// station metadata. filename is used for error reporting and as the station
// code fallback.
func Parse(filename string, data []byte) (domain.DailyTable, error) {
	text := decodeText(data)

	metaLines, tableLines, err := splitBlocks(text)
	if err != nil {
		return domain.DailyTable{}, &ParseError{File: filename, Reason: err}
	}

	meta := parseMetadata(metaLines)
	station := buildStation(meta, filename)

	table, err := parseTable(tableLines)
	if err != nil {
		return domain.DailyTable{}, &ParseError{File: filename, Reason: err}
	}

	table.Station = station
	deriveMeanTemp(&table)
	filterPhysicalRange(&table)

	sort.SliceStable(table.Records, func(i, j int) bool {
		return table.Records[i].Date.Before(table.Records[j].Date)
	})
	table.Station.CoverageStart = table.Records[0].Date
	table.Station.CoverageEnd = table.Records[len(table.Records)-1].Date

	return table, nil
}

// decodeText resolves the file encoding: UTF-8 when valid, otherwise
// Windows-1252 with best-effort substitution. The legacy archive exports are
// Windows-1252 and that decoder accepts every byte, so decoding never aborts
// a parse.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

// splitBlocks separates the metadata block from the data block on the first
// blank line.
func splitBlocks(text string) (meta, table []string, err error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	sep := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			sep = i
			break
		}
	}
	if sep < 0 || sep == len(lines)-1 {
		return nil, nil, ErrMissingSeparator
	}

	for _, line := range lines[sep+1:] {
		if strings.TrimSpace(line) != "" {
			table = append(table, line)
		}
	}
	if len(table) == 0 {
		return nil, nil, ErrMissingSeparator
	}
	return lines[:sep], table, nil
}

// parseMetadata collects KEY: VALUE lines into a case-insensitive map. Lines
// without a colon are ignored.
func parseMetadata(lines []string) map[string]string {
	meta := make(map[string]string, len(lines))
	for _, line := range lines {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		meta[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return meta
}

func buildStation(meta map[string]string, filename string) domain.Station {
	s := domain.Station{
		Code: lookupMeta(meta, codeKeys),
		Name: lookupMeta(meta, nameKeys),
	}
	if s.Code == "" {
		s.Code = codeFromFilename(filename)
	}

	// Coordinates are lenient: an unparseable number leaves the field
	// undefined rather than failing the whole file.
	s.Latitude = parseNumber(lookupMeta(meta, latKeys))
	s.Longitude = parseNumber(lookupMeta(meta, lonKeys))
	s.Altitude = parseNumber(lookupMeta(meta, altKeys))
	return s
}

func lookupMeta(meta map[string]string, keys []string) string {
	for _, k := range keys {
		if v, ok := meta[k]; ok && v != "" {
			return v
		}
	}
	return ""
}

// codeFromFilename extracts the station code token from a filename:
// "SA0042_daily.csv" -> "SA0042".
func codeFromFilename(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	token, _, _ := strings.Cut(base, "_")
	return token
}

// parseTable parses the semicolon-delimited data block: header row first,
// then one row per day.
func parseTable(lines []string) (domain.DailyTable, error) {
	headers := strings.Split(lines[0], ";")

	// Column index per canonical field. Headerless trailing columns (left by
	// a trailing delimiter) are dropped by never being mapped.
	cols := make(map[field]int, 5)
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if f, ok := columnNames[h]; ok {
			if _, dup := cols[f]; !dup {
				cols[f] = i
			}
		}
	}
	// No recognized date header: the first column is assumed to be the date.
	if _, ok := cols[fieldDate]; !ok {
		cols[fieldDate] = 0
	}

	table := domain.DailyTable{
		Schema: domain.Schema{
			HasMeanTemp: hasCol(cols, fieldMeanTemp),
			HasMaxTemp:  hasCol(cols, fieldMaxTemp),
			HasMinTemp:  hasCol(cols, fieldMinTemp),
			HasPrecip:   hasCol(cols, fieldPrecip),
		},
	}

	anyDate := false
	for _, line := range lines[1:] {
		cells := strings.Split(line, ";")

		date, ok := parseDate(cell(cells, cols[fieldDate]))
		if !ok {
			// Undefined date: the row has no usable key for grouping.
			continue
		}
		anyDate = true

		rec := domain.DailyRecord{Date: date}
		if table.Schema.HasMeanTemp {
			rec.MeanTemp = parseNumber(cell(cells, cols[fieldMeanTemp]))
		}
		if table.Schema.HasMaxTemp {
			rec.MaxTemp = parseNumber(cell(cells, cols[fieldMaxTemp]))
		}
		if table.Schema.HasMinTemp {
			rec.MinTemp = parseNumber(cell(cells, cols[fieldMinTemp]))
		}
		if table.Schema.HasPrecip {
			rec.Precip = parseNumber(cell(cells, cols[fieldPrecip]))
		}
		table.Records = append(table.Records, rec)
	}

	if !anyDate {
		return domain.DailyTable{}, ErrUnparseableDates
	}
	return table, nil
}

func hasCol(cols map[field]int, f field) bool {
	_, ok := cols[f]
	return ok
}

func cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

// parseNumber coerces a cell to a float. Empty cells, sentinel tokens, and
// unparseable values are all missing. The archive writes comma decimals.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || missingSentinels[s] {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// deriveMeanTemp fills the mean-temperature column as the arithmetic average
// of max and min when the file carried no mean column but both extremes.
func deriveMeanTemp(t *domain.DailyTable) {
	if t.Schema.HasMeanTemp || !t.Schema.HasMaxTemp || !t.Schema.HasMinTemp {
		return
	}
	for i := range t.Records {
		rec := &t.Records[i]
		if rec.MaxTemp != nil && rec.MinTemp != nil {
			rec.MeanTemp = domain.Float((*rec.MaxTemp + *rec.MinTemp) / 2)
		}
	}
	t.Schema.HasMeanTemp = true
}

// filterPhysicalRange forces implausible values to missing after numeric
// coercion: temperatures must lie strictly inside (-50, 50) °C and
// precipitation must be non-negative. Values are never clamped.
func filterPhysicalRange(t *domain.DailyTable) {
	for i := range t.Records {
		rec := &t.Records[i]
		rec.MeanTemp = plausibleTemp(rec.MeanTemp)
		rec.MaxTemp = plausibleTemp(rec.MaxTemp)
		rec.MinTemp = plausibleTemp(rec.MinTemp)
		if rec.Precip != nil && *rec.Precip < 0 {
			rec.Precip = nil
		}
	}
}

func plausibleTemp(v *float64) *float64 {
	if v == nil || *v <= minPlausibleTemp || *v >= maxPlausibleTemp {
		return nil
	}
	return v
}
