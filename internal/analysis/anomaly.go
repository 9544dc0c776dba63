package analysis

import "github.com/couchcryptid/station-climate/internal/domain"

// ComposeAnomalies left-joins a station's seasonal aggregates with its
// normals. Every input row yields exactly one output row; the anomaly is the
// seasonal mean minus the same-season baseline, nil when either operand is
// undefined. Missing fields never raise here: an entirely undefined series is
// a valid result for consumers to filter.
func ComposeAnomalies(t domain.SeasonalTable, normals domain.Normals) []domain.AnomalyRow {
	rows := make([]domain.AnomalyRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := domain.AnomalyRow{
			Year:     r.Year,
			Season:   r.Season,
			MeanTemp: r.MeanTemp,
		}
		if baseline, ok := normals[r.Season]; ok {
			row.Baseline = domain.Float(baseline)
			if r.MeanTemp != nil {
				row.Anomaly = domain.Float(*r.MeanTemp - baseline)
			}
		}
		rows = append(rows, row)
	}
	return rows
}
