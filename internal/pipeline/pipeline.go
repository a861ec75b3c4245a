package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/frankjungdss/repdata-project2/internal/domain"
	"github.com/frankjungdss/repdata-project2/internal/observability"
)

// DefaultFromYear is the inclusive default lower bound of the year filter.
// All 48 official event types are recorded from January 1996 onward; earlier
// years carry only tornado, thunderstorm wind, and hail reports and would
// overweight those categories in any cross-category comparison.
const DefaultFromYear = 1996

// progressInterval is how many rows pass between progress log lines.
const progressInterval = 100000

// RowSource streams raw CSV rows in file order. Next returns io.EOF after
// the final row. A row that is structurally unusable (wrong column count)
// may come back as a *domain.MalformedRecordError, which the run treats
// exactly like a row whose fields fail to parse; any other error aborts the
// run.
type RowSource interface {
	Next(ctx context.Context) (domain.RawRow, error)
}

// AnomalySink receives the magnitude anomalies collected during a run.
type AnomalySink interface {
	PublishAnomalies(ctx context.Context, anomalies []domain.MagnitudeAnomaly) error
}

// Options bound and shape a pipeline run.
type Options struct {
	// FromYear is the inclusive lower year bound. Zero or negative selects
	// DefaultFromYear.
	FromYear int
	// ToYear is the inclusive upper year bound. Zero means unbounded; the
	// result then reports the maximum year observed as the effective bound.
	ToYear int
	// Strict aborts the run on the first malformed row instead of skipping
	// and counting it.
	Strict bool
}

// RunStats accounts for every row read: each one is either malformed,
// filtered, or normalized.
type RunStats struct {
	RowsRead         int `json:"rows_read"`
	Malformed        int `json:"malformed"`
	FilteredByYear   int `json:"filtered_by_year"`
	FilteredNoImpact int `json:"filtered_no_impact"`
	Normalized       int `json:"normalized"`
	Anomalies        int `json:"anomalies"`
	Categories       int `json:"categories"`
}

// Result is the outcome of one run: effective year bounds, row accounting,
// per-category totals, both rankings, and the anomaly diagnostics.
type Result struct {
	FromYear     int
	ToYear       int
	Stats        RunStats
	Totals       []domain.CategoryTotals
	ByCasualties Ranking
	ByDamage     Ranking
	Anomalies    []domain.MagnitudeAnomaly
}

// TopByCasualties returns the n categories causing the most casualties.
func (r *Result) TopByCasualties(n int) []domain.CategoryTotals {
	return r.ByCasualties.Top(n)
}

// TopByDamage returns the n costliest categories.
func (r *Result) TopByDamage(n int) []domain.CategoryTotals {
	return r.ByDamage.Top(n)
}

// Pipeline orchestrates the read-filter-normalize-aggregate loop.
type Pipeline struct {
	source    RowSource
	sink      AnomalySink
	logger    *slog.Logger
	metrics   *observability.Metrics
	opts      Options
	ready     atomic.Bool
	processed atomic.Int64
}

// New creates a Pipeline over the given source. The sink may be nil when
// anomaly publishing is disabled.
func New(source RowSource, sink AnomalySink, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if opts.FromYear <= 0 {
		opts.FromYear = DefaultFromYear
	}
	return &Pipeline{
		source:  source,
		sink:    sink,
		logger:  logger,
		metrics: metrics,
		opts:    opts,
	}
}

// CheckReadiness returns nil once the pipeline has consumed at least one row,
// or an error describing why the run is not yet underway.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not processed any rows yet")
	}
	return nil
}

// Processed reports how many data rows the run has consumed so far. Safe to
// call from other goroutines while Run is in flight.
func (p *Pipeline) Processed() int64 {
	return p.processed.Load()
}

// Run consumes the source to exhaustion and returns the aggregated result.
// A malformed row is skipped and counted unless Strict is set, in which case
// the run aborts with an error that wraps the *domain.MalformedRecordError.
// Cancelling the context abandons the run; no partial result is returned.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	p.logger.Info("pipeline started",
		"from_year", p.opts.FromYear,
		"to_year", p.opts.ToYear,
		"strict", p.opts.Strict,
	)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)
	start := time.Now()

	agg := NewAggregator()
	var stats RunStats
	var anomalies []domain.MagnitudeAnomaly
	maxYear := 0

	for {
		if err := ctx.Err(); err != nil {
			p.logger.Info("pipeline stopping", "reason", err, "rows_read", stats.RowsRead)
			return nil, err
		}

		row, err := p.source.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		var structural *domain.MalformedRecordError
		if err != nil && !errors.As(err, &structural) {
			return nil, fmt.Errorf("read row %d: %w", stats.RowsRead+1, err)
		}

		stats.RowsRead++
		p.processed.Add(1)
		p.ready.Store(true)
		p.metrics.RowsRead.Inc()
		if stats.RowsRead%progressInterval == 0 {
			p.logger.Debug("pipeline progress", "rows_read", stats.RowsRead, "normalized", stats.Normalized)
		}

		// A structurally broken row from the source (wrong column count) and
		// a row whose typed fields fail to parse follow the same policy.
		var rec domain.StormRecord
		parseErr := err
		if parseErr == nil {
			rec, parseErr = domain.ParseRawRow(row)
		}
		if parseErr != nil {
			stats.Malformed++
			p.metrics.RecordsMalformed.Inc()
			if p.opts.Strict {
				return nil, fmt.Errorf("strict mode: %w", parseErr)
			}
			p.logger.Debug("skipping malformed row", "error", parseErr)
			continue
		}

		if rec.Year > maxYear {
			maxYear = rec.Year
		}
		if rec.Year < p.opts.FromYear || (p.opts.ToYear > 0 && rec.Year > p.opts.ToYear) {
			stats.FilteredByYear++
			p.metrics.RecordsFiltered.WithLabelValues("year").Inc()
			continue
		}
		if !rec.HasImpact() {
			stats.FilteredNoImpact++
			p.metrics.RecordsFiltered.WithLabelValues("no_impact").Inc()
			continue
		}

		normalized, recAnomalies := domain.NormalizeRecord(rec)
		stats.Normalized++
		p.metrics.RecordsNormalized.Inc()
		for _, anomaly := range recAnomalies {
			p.metrics.MagnitudeAnomalies.WithLabelValues(anomaly.Field).Inc()
		}
		anomalies = append(anomalies, recAnomalies...)
		agg.Add(normalized)
	}

	stats.Anomalies = len(anomalies)
	stats.Categories = agg.Len()
	p.metrics.Categories.Set(float64(agg.Len()))
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())

	toYear := p.opts.ToYear
	if toYear == 0 {
		toYear = maxYear
	}

	result := &Result{
		FromYear:     p.opts.FromYear,
		ToYear:       toYear,
		Stats:        stats,
		Totals:       agg.Totals(),
		ByCasualties: agg.RankByCasualties(),
		ByDamage:     agg.RankByDamage(),
		Anomalies:    anomalies,
	}

	p.publishAnomalies(ctx, anomalies)

	p.logger.Info("pipeline finished",
		"rows_read", stats.RowsRead,
		"malformed", stats.Malformed,
		"filtered_by_year", stats.FilteredByYear,
		"filtered_no_impact", stats.FilteredNoImpact,
		"normalized", stats.Normalized,
		"anomalies", stats.Anomalies,
		"categories", stats.Categories,
		"duration", time.Since(start),
	)
	return result, nil
}

// publishAnomalies forwards collected anomalies to the sink, if one is
// configured. Publish failures are logged, not returned: the result is
// already complete and still carries the anomalies itself.
func (p *Pipeline) publishAnomalies(ctx context.Context, anomalies []domain.MagnitudeAnomaly) {
	if p.sink == nil || len(anomalies) == 0 {
		return
	}
	if err := p.sink.PublishAnomalies(ctx, anomalies); err != nil {
		p.logger.Error("publish anomalies failed", "error", err, "count", len(anomalies))
		return
	}
	p.logger.Info("anomalies published", "count", len(anomalies))
}
