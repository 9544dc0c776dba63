package parser

// field is a canonical column of the daily table.
type field int

const (
	fieldDate field = iota
	fieldMeanTemp
	fieldMaxTemp
	fieldMinTemp
	fieldPrecip
)

// columnNames maps every known historical header spelling onto its canonical
// field. The archive changed header conventions several times (accents
// dropped, unit suffixes added, abbreviated forms); matching is exact and
// case-sensitive because the generations never mixed case styles within one
// spelling.
var columnNames = map[string]field{
	// date
	"Fecha": fieldDate,
	"fecha": fieldDate,
	"FECHA": fieldDate,
	"Date":  fieldDate,
	"Dia":   fieldDate,

	// mean temperature
	"Temperatura Media":      fieldMeanTemp,
	"Temperatura Media (°C)": fieldMeanTemp,
	"Temperatura Media (ºC)": fieldMeanTemp,
	"Temp Media":             fieldMeanTemp,
	"T. Media":               fieldMeanTemp,
	"temp_media":             fieldMeanTemp,
	"TMED":                   fieldMeanTemp,
	"tmed":                   fieldMeanTemp,

	// max temperature
	"Temperatura Maxima":      fieldMaxTemp,
	"Temperatura Máxima":      fieldMaxTemp,
	"Temperatura Maxima (°C)": fieldMaxTemp,
	"Temperatura Máxima (ºC)": fieldMaxTemp,
	"Temp Maxima":             fieldMaxTemp,
	"T. Maxima":               fieldMaxTemp,
	"temp_max":                fieldMaxTemp,
	"TMAX":                    fieldMaxTemp,
	"tmax":                    fieldMaxTemp,

	// min temperature
	"Temperatura Minima":      fieldMinTemp,
	"Temperatura Mínima":      fieldMinTemp,
	"Temperatura Minima (°C)": fieldMinTemp,
	"Temperatura Mínima (ºC)": fieldMinTemp,
	"Temp Minima":             fieldMinTemp,
	"T. Minima":               fieldMinTemp,
	"temp_min":                fieldMinTemp,
	"TMIN":                    fieldMinTemp,
	"tmin":                    fieldMinTemp,

	// precipitation
	"Precipitacion":      fieldPrecip,
	"Precipitación":      fieldPrecip,
	"Precipitacion (mm)": fieldPrecip,
	"Precipitación (mm)": fieldPrecip,
	"Lluvia (mm)":        fieldPrecip,
	"precipitacion_mm":   fieldPrecip,
	"PP":                 fieldPrecip,
	"prcp":               fieldPrecip,
}

// metadata header keys, matched after lowercasing.
var (
	codeKeys = []string{"codigo", "código", "estacion", "estación", "station", "code", "id"}
	nameKeys = []string{"nombre", "name", "estacion_nombre"}
	latKeys  = []string{"latitud", "lat", "latitude"}
	lonKeys  = []string{"longitud", "lon", "long", "longitude"}
	altKeys  = []string{"altitud", "altura", "elevacion", "elevación", "altitude", "elevation"}
)

// missingSentinels are the archive's explicit missing-value markers, compared
// after trimming. Empty fields are handled separately.
var missingSentinels = map[string]bool{
	"null":    true,
	"NULL":    true,
	"-9999":   true,
	"-9999.0": true,
	"-9999,0": true,
	"9999.9":  true,
	"9999,9":  true,
}

// dateLayouts are attempted in order for every date cell.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"20060102",
}
