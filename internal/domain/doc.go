// Package domain models daily meteorological station records and their
// seasonal climate summaries.
//
// # Data Source
//
// Input files come from regional meteorological archives covering
// southern-hemisphere stations. Each file holds one station: a plain-text
// header block with KEY: VALUE metadata lines, one blank line, and a
// semicolon-delimited daily table. Files are encoded in UTF-8 or, for the
// older archive exports, Windows-1252.
//
// # File Conventions
//
// Header block:
//
//	CODIGO: SA0042
//	NOMBRE: Bahía Perdida
//	LATITUD: -41,13
//	LONGITUD: -71,30
//	ALTITUD: 845
//
// Keys are matched case-insensitively. When no station-code key is present
// the code falls back to the leading token of the filename
// ("SA0042_daily.csv" -> "SA0042").
//
// Daily table:
//
//	Fecha;Temperatura Media (°C);Temperatura Maxima (°C);Temperatura Minima (°C);Precipitacion (mm)
//	1987-06-01;3,4;8,1;-1,2;0,0
//	1987-06-02;null;7,9;-9999;12,5
//
// Decimal separator is a comma. Missing values appear as empty fields, the
// literal token "null", or the numeric sentinels -9999 / -9999.0 / 9999.9.
// Header spellings vary across archive generations (accents, abbreviations,
// unit suffixes); the parser maps all known variants onto five canonical
// columns: date, mean/max/min temperature, precipitation.
//
// Physical plausibility: temperatures must lie strictly inside (-50, 50) °C
// and precipitation must be non-negative. Out-of-range values are treated as
// missing, never clamped.
//
// # Season-Year Rule
//
// Seasons are meteorological and hemisphere-aware: Dec-Feb summer, Mar-May
// autumn, Jun-Aug winter, Sep-Nov spring. December is labelled with the
// following calendar year so that one austral summer stays inside a single
// season-year: 2019-12-31 belongs to summer 2020. See [SeasonOf].
//
// # Missing Data
//
// A variable a station never reported is absent from its [Schema], and every
// table derived from that station omits the corresponding statistics
// entirely. A variable that is present but unobserved on a given day is a nil
// field. Neither condition is an error anywhere past the parser; undefined
// values propagate silently and are filtered by consumers.
package domain
