package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records price matrix and attribute merge activity.
type PricingMetrics struct {
	duration     *prometheus.HistogramVec
	entries      prometheus.Counter
	volumePrices *prometheus.CounterVec
	failure      *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_operation_duration_seconds",
		Help:    "Duration of price matrix builds and attribute merges in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	entries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricing_matrix_entries_total",
		Help: "Price entries classified into price matrices.",
	})
	volumePrices := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_volume_price_actions_total",
		Help: "Volume price actions offered, by action.",
	}, []string{"action"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_operation_failures_total",
		Help: "Rejected pricing operations, by operation and error code.",
	}, []string{"operation", "code"})
	reg.MustRegister(duration, entries, volumePrices, failure)
	return &PricingMetrics{
		duration:     duration,
		entries:      entries,
		volumePrices: volumePrices,
		failure:      failure,
	}
}

// ObserveDuration records the duration of the named operation.
func (p *PricingMetrics) ObserveDuration(operation string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// AddEntries counts classified price entries.
func (p *PricingMetrics) AddEntries(n int) {
	if p == nil || p.entries == nil || n <= 0 {
		return
	}
	p.entries.Add(float64(n))
}

// IncVolumePrice counts an offered volume price action.
func (p *PricingMetrics) IncVolumePrice(action string) {
	if p == nil || p.volumePrices == nil {
		return
	}
	p.volumePrices.WithLabelValues(normalizeLabel(action)).Inc()
}

// IncFailure counts a rejected operation.
func (p *PricingMetrics) IncFailure(operation, code string) {
	if p == nil || p.failure == nil {
		return
	}
	p.failure.WithLabelValues(normalizeLabel(operation), normalizeLabel(code)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
