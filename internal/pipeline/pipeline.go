// Package pipeline orchestrates the per-station batch run: discover files,
// parse each into a daily table, aggregate, resolve normals, and compose
// anomalies. Stations are independent, so files are processed by a bounded
// worker pool and merged only once all workers finish.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/station-climate/internal/analysis"
	"github.com/couchcryptid/station-climate/internal/domain"
	"github.com/couchcryptid/station-climate/internal/observability"
	"github.com/couchcryptid/station-climate/internal/parser"
)

// Source lists and reads raw station files.
type Source interface {
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, name string) ([]byte, error)
}

// Failure records one station file the batch could not process. Failures are
// isolated: a malformed file never aborts the run.
type Failure struct {
	File   string
	Reason string
	At     time.Time
}

// Batch is the merged output of one run: per-station results keyed by station
// code plus the failure report.
type Batch struct {
	Stations map[string]*domain.StationResult
	Failures []Failure
}

// Progress is a point-in-time snapshot of a running batch.
type Progress struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// Pipeline runs the full station batch.
type Pipeline struct {
	source   Source
	baseline analysis.BaselineConfig
	workers  int
	logger   *slog.Logger
	metrics  *observability.Metrics

	ready     atomic.Bool
	total     atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
}

// New creates a Pipeline. workers below 1 is treated as 1.
func New(source Source, baseline analysis.BaselineConfig, workers int, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		source:   source,
		baseline: baseline,
		workers:  workers,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness returns nil once at least one station has been processed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no station processed yet")
	}
	return nil
}

// Snapshot reports how far the current batch has progressed.
func (p *Pipeline) Snapshot() Progress {
	return Progress{
		Total:     int(p.total.Load()),
		Processed: int(p.processed.Load()),
		Failed:    int(p.failed.Load()),
	}
}

// Run processes every file from the source and returns the merged batch.
// Only listing failures and context cancellation return an error; per-file
// parse failures land in the batch's failure report.
func (p *Pipeline) Run(ctx context.Context) (*Batch, error) {
	files, err := p.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list station files: %w", err)
	}
	p.total.Store(int64(len(files)))
	p.logger.Info("batch started", "files", len(files), "workers", p.workers)

	p.metrics.BatchRunning.Set(1)
	defer p.metrics.BatchRunning.Set(0)

	batch := &Batch{Stations: make(map[string]*domain.StationResult, len(files))}

	names := make(chan string)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range names {
				result, err := p.processFile(ctx, name)
				mu.Lock()
				if err != nil {
					batch.Failures = append(batch.Failures, Failure{
						File:   name,
						Reason: err.Error(),
						At:     domain.Now(),
					})
					p.failed.Add(1)
				} else {
					if prev, dup := batch.Stations[result.Station.Code]; dup {
						p.logger.Warn("duplicate station code, keeping later file",
							"code", result.Station.Code,
							"records_dropped", len(prev.Daily.Records),
						)
					}
					batch.Stations[result.Station.Code] = result
					p.processed.Add(1)
					p.ready.Store(true)
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, name := range files {
		select {
		case <-ctx.Done():
			break feed
		case names <- name:
		}
	}
	close(names)
	wg.Wait()

	if ctx.Err() != nil {
		p.logger.Info("batch cancelled", "reason", ctx.Err())
		return batch, ctx.Err()
	}

	p.logger.Info("batch finished",
		"stations", len(batch.Stations),
		"failures", len(batch.Failures),
	)
	return batch, nil
}

// processFile runs one station's full pipeline. Parser errors are the only
// expected failure mode; aggregation and baseline stages degrade to undefined
// values instead of failing.
func (p *Pipeline) processFile(ctx context.Context, name string) (*domain.StationResult, error) {
	start := time.Now()

	data, err := p.source.Read(ctx, name)
	if err != nil {
		p.metrics.FileFailures.Inc()
		return nil, fmt.Errorf("read: %w", err)
	}

	daily, err := parser.Parse(name, data)
	if err != nil {
		p.metrics.FileFailures.Inc()
		p.logger.Warn("station file rejected", "file", name, "error", err)
		return nil, err
	}

	seasonal := analysis.Aggregate(daily)
	normals, source := analysis.Normals(seasonal, p.baseline)
	anomalies := analysis.ComposeAnomalies(seasonal, normals)

	p.metrics.FilesProcessed.Inc()
	p.metrics.RecordsParsed.Add(float64(len(daily.Records)))
	p.metrics.BaselineSource.WithLabelValues(string(source)).Inc()
	p.metrics.StationDuration.Observe(time.Since(start).Seconds())

	p.logger.Debug("station processed",
		"code", daily.Station.Code,
		"records", len(daily.Records),
		"seasons", len(seasonal.Rows),
		"baseline", source,
	)

	return &domain.StationResult{
		Station:        daily.Station,
		Daily:          daily,
		Seasonal:       seasonal,
		Normals:        normals,
		BaselineSource: source,
		Anomalies:      anomalies,
		ProcessedAt:    domain.Now(),
	}, nil
}
