package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// report pipeline.
type Metrics struct {
	RowsRead          prometheus.Counter
	RecordsMalformed  prometheus.Counter
	RecordsNormalized prometheus.Counter
	PipelineRunning   prometheus.Gauge
	Categories        prometheus.Gauge
	RunDuration       prometheus.Histogram

	RecordsFiltered    *prometheus.CounterVec // labels: reason={year,no_impact}
	MagnitudeAnomalies *prometheus.CounterVec // labels: field={property,crop}
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "rows_read_total",
			Help:      "Total data rows read from the source file.",
		}),
		RecordsMalformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "records_malformed_total",
			Help:      "Total rows skipped because a typed field failed to parse.",
		}),
		RecordsNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "records_normalized_total",
			Help:      "Total records normalized and fed to the aggregator.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storm_report",
			Name:      "pipeline_running",
			Help:      "1 while a run is in flight, 0 otherwise.",
		}),
		Categories: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storm_report",
			Name:      "categories",
			Help:      "Distinct canonical event-type categories in the last run.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "storm_report",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete read-filter-normalize-aggregate run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		RecordsFiltered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "records_filtered_total",
			Help:      "Rows excluded by the filter stage, by reason.",
		}, []string{"reason"}),
		MagnitudeAnomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_report",
			Name:      "magnitude_anomalies_total",
			Help:      "Damage fields carrying an unrecognized magnitude code, by field.",
		}, []string{"field"}),
	}

	prometheus.MustRegister(
		m.RowsRead,
		m.RecordsMalformed,
		m.RecordsNormalized,
		m.PipelineRunning,
		m.Categories,
		m.RunDuration,
		m.RecordsFiltered,
		m.MagnitudeAnomalies,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RowsRead:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_report", Name: "rows_read_total"}),
		RecordsMalformed:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_report", Name: "records_malformed_total"}),
		RecordsNormalized:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_report", Name: "records_normalized_total"}),
		PipelineRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "storm_report", Name: "pipeline_running"}),
		Categories:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "storm_report", Name: "categories"}),
		RunDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "storm_report", Name: "run_duration_seconds"}),
		RecordsFiltered:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "storm_report", Name: "records_filtered_total"}, []string{"reason"}),
		MagnitudeAnomalies: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "storm_report", Name: "magnitude_anomalies_total"}, []string{"field"}),
	}
}
