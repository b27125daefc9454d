package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the validation pipeline.
type Metrics struct {
	// Validations by file type and result (ok, error)
	Validations *prometheus.CounterVec

	// Parse errors and cross-check warnings by validation key
	ValidationOutcomes *prometheus.CounterVec

	// Cross-check groups that failed open
	CrossCheckFailures prometheus.Counter

	// Response cache hits and misses
	CacheEvents *prometheus.CounterVec

	// Catalog batch lookup latency by backing store
	CatalogLookupLatency *prometheus.HistogramVec

	// End-to-end domain validation latency
	ValidateLatency prometheus.Histogram
}

// New creates a Metrics instance with all pipeline metrics registered.
func New() *Metrics {
	return &Metrics{
		Validations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "adstxt_validations_total",
			Help: "Total validation requests by file type and result",
		}, []string{"file_type", "result"}),

		ValidationOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "adstxt_validation_outcomes_total",
			Help: "Parse errors and cross-check warnings by validation key",
		}, []string{"key", "severity"}),

		CrossCheckFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "adstxt_crosscheck_failures_total",
			Help: "Cross-check groups that failed open due to catalog errors",
		}),

		CacheEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "adstxt_cache_events_total",
			Help: "Validation response cache hits and misses",
		}, []string{"event"}), // event: "hit", "miss"

		CatalogLookupLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "adstxt_catalog_lookup_duration_seconds",
			Help:    "Duration of seller catalog batch lookups by store",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"store"}), // store: "cached", "backend"

		ValidateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "adstxt_validate_duration_seconds",
			Help:    "Duration of full domain validation including fetch and cross-check",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// IncrementValidation records a completed validation request.
func (m *Metrics) IncrementValidation(fileType, result string) {
	if m != nil {
		m.Validations.WithLabelValues(fileType, result).Inc()
	}
}

// IncrementOutcome records one parse error or cross-check warning.
func (m *Metrics) IncrementOutcome(key, severity string) {
	if m != nil {
		m.ValidationOutcomes.WithLabelValues(key, severity).Inc()
	}
}

// IncrementCrossCheckFailure records a fail-open catalog group.
func (m *Metrics) IncrementCrossCheckFailure() {
	if m != nil {
		m.CrossCheckFailures.Inc()
	}
}

// IncrementCacheEvent records a response cache hit or miss.
func (m *Metrics) IncrementCacheEvent(event string) {
	if m != nil {
		m.CacheEvents.WithLabelValues(event).Inc()
	}
}

// ObserveCatalogLookup records the duration of a catalog batch lookup.
func (m *Metrics) ObserveCatalogLookup(store string, d time.Duration) {
	if m != nil {
		m.CatalogLookupLatency.WithLabelValues(store).Observe(d.Seconds())
	}
}

// ObserveValidateLatency records the total validation duration.
func (m *Metrics) ObserveValidateLatency(d time.Duration) {
	if m != nil {
		m.ValidateLatency.Observe(d.Seconds())
	}
}
