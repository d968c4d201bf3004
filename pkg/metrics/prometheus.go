package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	SearchesTotal      *prometheus.CounterVec
	SearchDuration     prometheus.Histogram
	ProviderLatency    *prometheus.HistogramVec
	ProviderFallbacks  *prometheus.CounterVec
	OffersExcluded     prometheus.Counter
	OffersDeduplicated prometheus.Counter
	PredictionsTotal   *prometheus.CounterVec
	SideEffectErrors   *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics registered on reg.
// A nil registerer uses the default prometheus registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		SearchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "The total number of flight searches by outcome",
		}, []string{"outcome"}),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Time taken to aggregate and rank a search",
			Buckets:   prometheus.DefBuckets,
		}),
		ProviderLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Time taken by each offer provider",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		ProviderFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_fallbacks_total",
			Help:      "The total number of searches answered with mock offers",
		}, []string{"provider"}),
		OffersExcluded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_excluded_total",
			Help:      "The total number of offers removed by the carrier denylist",
		}),
		OffersDeduplicated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_deduplicated_total",
			Help:      "The total number of duplicate offers dropped",
		}),
		PredictionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "The total number of price predictions by method",
		}, []string{"method"}),
		SideEffectErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "side_effect_errors_total",
			Help:      "The total number of failed best-effort tasks",
		}, []string{"task"}),
	}
}
