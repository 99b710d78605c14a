package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records counters and timings for the checkout pipeline.
type CheckoutMetrics struct {
	attempts        prometheus.Counter
	outcomes        *prometheus.CounterVec
	paymentDuration prometheus.Histogram
	notifyFailures  prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	attempts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_attempts_total",
		Help: "Checkout submissions received.",
	})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_outcomes_total",
		Help: "Checkout results partitioned by outcome.",
	}, []string{"outcome"})
	paymentDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_payment_duration_seconds",
		Help:    "Time spent waiting on the payment gateway.",
		Buckets: prometheus.DefBuckets,
	})
	notifyFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_notify_failures_total",
		Help: "Order confirmations that could not be recorded as notifications.",
	})
	reg.MustRegister(attempts, outcomes, paymentDuration, notifyFailures)
	return &CheckoutMetrics{
		attempts:        attempts,
		outcomes:        outcomes,
		paymentDuration: paymentDuration,
		notifyFailures:  notifyFailures,
	}
}

// IncAttempt increments the submissions counter.
func (c *CheckoutMetrics) IncAttempt() {
	if c == nil || c.attempts == nil {
		return
	}
	c.attempts.Inc()
}

// IncOutcome increments the outcome counter for the given label.
func (c *CheckoutMetrics) IncOutcome(outcome string) {
	if c == nil || c.outcomes == nil {
		return
	}
	c.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObservePaymentDuration records how long the gateway took to answer.
func (c *CheckoutMetrics) ObservePaymentDuration(duration time.Duration) {
	if c == nil || c.paymentDuration == nil {
		return
	}
	c.paymentDuration.Observe(duration.Seconds())
}

// IncNotifyFailure increments the best-effort notification failure counter.
func (c *CheckoutMetrics) IncNotifyFailure() {
	if c == nil || c.notifyFailures == nil {
		return
	}
	c.notifyFailures.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
