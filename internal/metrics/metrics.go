package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fairyhunter13/deal-engine/internal/model"
)

// Registry holds the deal engine's Prometheus collectors.
type Registry struct {
	reg              *prometheus.Registry
	Calculations     *prometheus.CounterVec
	ValidationErrors *prometheus.CounterVec
	DiscountGranted  prometheus.Counter
	Recommendations  prometheus.Histogram
	Applied          prometheus.Counter
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	calculations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deal_calculations_total",
		Help: "Discount calculations by outcome.",
	}, []string{"result"})
	validationErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deal_validation_errors_total",
		Help: "Deal validation errors by error type.",
	}, []string{"error_type"})
	discountGranted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deal_discount_granted_total",
		Help: "Sum of discount amounts returned by valid calculations.",
	})
	recommendations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "deal_recommendations_per_request",
		Help:    "Number of recommendations returned per request.",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
	})
	applied := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deal_applied_total",
		Help: "Deals committed to transactions.",
	})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deal_trending_cache_hits_total",
		Help: "Trending lookups served from cache.",
	})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deal_trending_cache_misses_total",
		Help: "Trending lookups recomputed from the catalog.",
	})

	r.MustRegister(calculations, validationErrors, discountGranted, recommendations, applied, cacheHits, cacheMisses)
	return &Registry{
		reg:              r,
		Calculations:     calculations,
		ValidationErrors: validationErrors,
		DiscountGranted:  discountGranted,
		Recommendations:  recommendations,
		Applied:          applied,
		CacheHits:        cacheHits,
		CacheMisses:      cacheMisses,
	}
}

// ObserveCalculation records one calculation result.
func (r *Registry) ObserveCalculation(res model.CalculationResult) {
	if res.IsValid {
		r.Calculations.WithLabelValues("valid").Inc()
		r.DiscountGranted.Add(float64(res.DiscountAmount))
	} else {
		r.Calculations.WithLabelValues("invalid").Inc()
	}
	r.ObserveValidationErrors(res.Errors)
}

// ObserveValidationErrors counts each error by type.
func (r *Registry) ObserveValidationErrors(errs []model.ValidationError) {
	for _, e := range errs {
		r.ValidationErrors.WithLabelValues(string(e.ErrorType)).Inc()
	}
}

// ObserveRecommendations records how many recommendations a request produced.
func (r *Registry) ObserveRecommendations(n int) {
	r.Recommendations.Observe(float64(n))
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
