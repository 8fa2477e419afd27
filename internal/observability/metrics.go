package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for a report run.
type Metrics struct {
	RowsConsumed  prometheus.Counter
	ParseErrors   prometheus.Counter
	FetchErrors   prometheus.Counter
	FetchDuration prometheus.Histogram

	RegionsTracked prometheus.Gauge
	DatasetLoaded  prometheus.Gauge

	// Comparison metrics.
	Comparisons      *prometheus.CounterVec // labels: trend={increase,decrease,unchanged}
	PercentageErrors prometheus.Counter
	ReportsPublished prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.RowsConsumed,
		m.ParseErrors,
		m.FetchErrors,
		m.FetchDuration,
		m.RegionsTracked,
		m.DatasetLoaded,
		m.Comparisons,
		m.PercentageErrors,
		m.ReportsPublished,
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
		RowsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covid_avg",
			Name:      "rows_consumed_total",
			Help:      "Total dataset rows fed to the delta tracker.",
		}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covid_avg",
			Name:      "parse_errors_total",
			Help:      "Dataset parse failures.",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covid_avg",
			Name:      "fetch_errors_total",
			Help:      "Dataset download failures.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "covid_avg",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of the dataset download and parse.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RegionsTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covid_avg",
			Name:      "regions_tracked",
			Help:      "Number of distinct regions seen in the dataset.",
		}),
		DatasetLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "covid_avg",
			Name:      "dataset_loaded",
			Help:      "1 once the dataset has been consumed, 0 otherwise.",
		}),
		Comparisons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "covid_avg",
			Name:      "comparisons_total",
			Help:      "Week-over-week comparisons reported, by trend.",
		}, []string{"trend"}),
		PercentageErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covid_avg",
			Name:      "percentage_errors_total",
			Help:      "Percentage calculations that divided by zero.",
		}),
		ReportsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "covid_avg",
			Name:      "reports_published_total",
			Help:      "Comparisons published to the report topic.",
		}),
	}
}
