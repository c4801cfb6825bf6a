// Package metrics holds the Prometheus collectors for the chat service.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/xiaot623/gogo/ibu/internal/adapter/llm"
)

// Request outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	chatRequests       *prometheus.CounterVec
	completionFailures *prometheus.CounterVec
	completionDuration prometheus.Histogram
	absorbedFailures   prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		chatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ibu_chat_requests_total",
			Help: "Chat requests handled, by outcome.",
		}, []string{"outcome"}),
		completionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ibu_completion_failures_total",
			Help: "Failed completion API calls, by failure kind.",
		}, []string{"kind"}),
		completionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ibu_completion_duration_seconds",
			Help:    "Latency of completion API calls.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		}),
		absorbedFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ibu_history_absorbed_failures_total",
			Help: "History writes that failed and were dropped.",
		}),
	}
	reg.MustRegister(m.chatRequests, m.completionFailures, m.completionDuration, m.absorbedFailures)
	return m
}

// ObserveRequest counts one handled chat request.
func (m *Metrics) ObserveRequest(outcome string) {
	if m == nil {
		return
	}
	m.chatRequests.WithLabelValues(outcome).Inc()
}

// ObserveCompletion records the latency and, on failure, the failure kind.
func (m *Metrics) ObserveCompletion(elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.completionDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.completionFailures.WithLabelValues(failureKind(err)).Inc()
	}
}

// ObserveAbsorbedFailure counts one dropped history write.
func (m *Metrics) ObserveAbsorbedFailure() {
	if m == nil {
		return
	}
	m.absorbedFailures.Inc()
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, llm.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, llm.ErrTimeout):
		return "timeout"
	case errors.Is(err, llm.ErrTransport):
		return "transport"
	case errors.Is(err, llm.ErrRemote):
		return "remote"
	default:
		return "unexpected"
	}
}
