package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// station batch pipeline.
type Metrics struct {
	FilesProcessed prometheus.Counter
	FileFailures   prometheus.Counter
	RecordsParsed  prometheus.Counter
	BatchRunning   prometheus.Gauge

	// Per-station processing metrics.
	StationDuration prometheus.Histogram
	BaselineSource  *prometheus.CounterVec // label: source={reference,fallback,none}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FilesProcessed,
		m.FileFailures,
		m.RecordsParsed,
		m.BatchRunning,
		m.StationDuration,
		m.BaselineSource,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FilesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "station_climate",
			Name:      "files_processed_total",
			Help:      "Station files parsed and aggregated successfully.",
		}),
		FileFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "station_climate",
			Name:      "file_failures_total",
			Help:      "Station files rejected by the parser.",
		}),
		RecordsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "station_climate",
			Name:      "records_parsed_total",
			Help:      "Daily records parsed across all stations.",
		}),
		BatchRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "station_climate",
			Name:      "batch_running",
			Help:      "1 while a batch run is in progress, 0 otherwise.",
		}),
		StationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "station_climate",
			Name:      "station_processing_duration_seconds",
			Help:      "Duration of one station's parse-aggregate-baseline cycle.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		BaselineSource: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "station_climate",
			Name:      "baseline_source_total",
			Help:      "Stations by resolved climatology period.",
		}, []string{"source"}),
	}
}
