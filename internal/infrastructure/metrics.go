package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the Prometheus counters maintained by the pipeline
// runners. Each runner increments them as it works; the registry can be
// scraped or dumped at the end of a run.
type Metrics struct {
	Registry *prometheus.Registry

	TradesClassified  prometheus.Counter
	QuotesClassified  prometheus.Counter
	AnomalousTrades   *prometheus.CounterVec
	DaysProcessed     *prometheus.CounterVec
	EventsResampled   prometheus.Counter
	EventsMissingData prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics on a fresh
// registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		TradesClassified: factory.NewCounter(prometheus.CounterOpts{
			Name: "trth_trades_classified_total",
			Help: "Total number of trade ticks classified",
		}),

		QuotesClassified: factory.NewCounter(prometheus.CounterOpts{
			Name: "trth_quotes_classified_total",
			Help: "Total number of quote ticks classified",
		}),

		AnomalousTrades: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trth_anomalous_trades_total",
			Help: "Total number of trades outside session hours with no explaining qualifier",
		}, []string{"kind"}),

		DaysProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trth_days_processed_total",
			Help: "Total number of exchange-days processed by outcome",
		}, []string{"outcome"}),

		EventsResampled: factory.NewCounter(prometheus.CounterOpts{
			Name: "trth_events_resampled_total",
			Help: "Total number of events resampled onto announcement grids",
		}),

		EventsMissingData: factory.NewCounter(prometheus.CounterOpts{
			Name: "trth_events_missing_data_total",
			Help: "Total number of events skipped because no ticks were found in the window",
		}),
	}
}
