package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nuclear_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	// Load metrics.
	RowsRead       prometheus.Counter
	RowsDropped    prometheus.Counter
	LoadDuration   prometheus.Histogram
	LoadErrors     *prometheus.CounterVec // labels: kind={source,integrity,other}
	DatasetLoaded  prometheus.Gauge
	DatasetRecords prometheus.Gauge

	// Evaluation metrics.
	Evaluations        *prometheus.CounterVec   // labels: artifact
	EvaluationDuration *prometheus.HistogramVec // labels: artifact
	ViewSize           prometheus.Histogram
	EmptyViews         prometheus.Counter

	// Export metrics.
	Exports       *prometheus.CounterVec // labels: format={csv,kafka}
	ExportedRows  *prometheus.CounterVec // labels: format={csv,kafka}
	PublishErrors prometheus.Counter
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsWith creates metrics registered with reg, for processes that keep
// their own registry.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Raw rows read from the dataset source.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Raw rows dropped because a cell was missing.",
		}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Duration of reading and cleaning the dataset.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		LoadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_errors_total",
			Help:      "Failed dataset loads by error kind.",
		}, []string{"kind"}),
		DatasetLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_loaded",
			Help:      "1 once the canonical dataset is available, 0 otherwise.",
		}),
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Records in the canonical dataset.",
		}),
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Filter evaluations by requested artifact.",
		}, []string{"artifact"}),
		EvaluationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Duration of filtering the canonical dataset.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"artifact"}),
		ViewSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "view_size",
			Help:      "Records per filtered view.",
			Buckets:   []float64{0, 1, 10, 50, 100, 250, 500, 1000, 2500},
		}),
		EmptyViews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_views_total",
			Help:      "Evaluations whose filters matched no records.",
		}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Filtered view exports by format.",
		}, []string{"format"}),
		ExportedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exported_rows_total",
			Help:      "Records written by exports, by format.",
		}, []string{"format"}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed Kafka publishes of a filtered view.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RowsRead,
		m.RowsDropped,
		m.LoadDuration,
		m.LoadErrors,
		m.DatasetLoaded,
		m.DatasetRecords,
		m.Evaluations,
		m.EvaluationDuration,
		m.ViewSize,
		m.EmptyViews,
		m.Exports,
		m.ExportedRows,
		m.PublishErrors,
	}
}
