package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/station-climate/internal/domain"
)

func TestComposeAnomalies(t *testing.T) {
	t.Run("anomaly is mean minus baseline", func(t *testing.T) {
		table := domain.SeasonalTable{
			Schema: domain.Schema{HasMeanTemp: true},
			Rows: []domain.SeasonalRow{
				{Year: 1995, Season: domain.Summer, MeanTemp: domain.Float(23.5)},
			},
		}
		normals := domain.Normals{domain.Summer: 22.0}

		rows := ComposeAnomalies(table, normals)
		require.Len(t, rows, 1)
		require.NotNil(t, rows[0].Anomaly)
		assert.InDelta(t, 1.5, *rows[0].Anomaly, 1e-9)
		assert.InDelta(t, 22.0, *rows[0].Baseline, 1e-9)
	})

	t.Run("undefined mean yields undefined anomaly", func(t *testing.T) {
		table := domain.SeasonalTable{
			Schema: domain.Schema{HasMeanTemp: true},
			Rows: []domain.SeasonalRow{
				{Year: 1995, Season: domain.Summer},
			},
		}
		normals := domain.Normals{domain.Summer: 22.0}

		rows := ComposeAnomalies(table, normals)
		require.Len(t, rows, 1)
		assert.Nil(t, rows[0].Anomaly)
		assert.NotNil(t, rows[0].Baseline)
	})

	t.Run("undefined baseline yields undefined anomaly", func(t *testing.T) {
		table := domain.SeasonalTable{
			Schema: domain.Schema{HasMeanTemp: true},
			Rows: []domain.SeasonalRow{
				{Year: 1995, Season: domain.Winter, MeanTemp: domain.Float(4.0)},
			},
		}

		rows := ComposeAnomalies(table, domain.Normals{})
		require.Len(t, rows, 1)
		assert.Nil(t, rows[0].Baseline)
		assert.Nil(t, rows[0].Anomaly)
		assert.NotNil(t, rows[0].MeanTemp)
	})

	t.Run("always one row per input row", func(t *testing.T) {
		table := domain.SeasonalTable{
			Schema: domain.Schema{HasPrecip: true},
			Rows: []domain.SeasonalRow{
				{Year: 1995, Season: domain.Summer},
				{Year: 1995, Season: domain.Autumn},
				{Year: 1995, Season: domain.Winter},
			},
		}

		// No mean-temperature field anywhere: composing must not raise,
		// every anomaly is simply undefined.
		rows := ComposeAnomalies(table, domain.Normals{})
		require.Len(t, rows, 3)
		for _, r := range rows {
			assert.Nil(t, r.Anomaly)
		}
	})
}
