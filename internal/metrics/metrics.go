package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters of one alpha model process. Each instance owns a
// private registry so several models (and tests) never collide.
type Metrics struct {
	Registry *prometheus.Registry

	TickersTotal   *prometheus.CounterVec
	AssetsRemoved  *prometheus.CounterVec
	DaysRemoved    prometheus.Counter
	RefreshesTotal *prometheus.CounterVec
	FetchDuration  prometheus.Histogram
}

// Outcome labels for RefreshesTotal.
const (
	OutcomeCacheHit = "cache_hit"
	OutcomeFetched  = "fetched"
	OutcomeFailed   = "failed"
)

// New creates and registers the counters of model name.
func New(name string) *Metrics {
	labels := prometheus.Labels{"model": name}

	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		TickersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "alpha_tickers_total", Help: "Tickers requested from the data source by result", ConstLabels: labels},
			[]string{"result"},
		),
		AssetsRemoved: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "alpha_assets_removed_total", Help: "Instruments removed by the quality filter by reason", ConstLabels: labels},
			[]string{"reason"},
		),
		DaysRemoved: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "alpha_days_removed_total", Help: "Trading days removed for excessive missing data", ConstLabels: labels},
		),
		RefreshesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "alpha_refreshes_total", Help: "Dataset refreshes by outcome", ConstLabels: labels},
			[]string{"outcome"},
		),
		FetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:        "alpha_fetch_duration_seconds",
				Help:        "Wall time of a full raw data fetch",
				ConstLabels: labels,
				Buckets:     prometheus.ExponentialBuckets(0.5, 2, 10),
			},
		),
	}

	m.Registry.MustRegister(m.TickersTotal, m.AssetsRemoved, m.DaysRemoved, m.RefreshesTotal, m.FetchDuration)

	return m
}

// WriteTextfile writes the current values in the node exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
