package leetcode

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records upstream traffic. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	retriesTotal     *prometheus.CounterVec
	fallbacksTotal   prometheus.Counter
	catalogEntries   prometheus.Gauge
	rateLimitWaiting *prometheus.HistogramVec
}

// NewMetrics creates the upstream collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interview_prep_upstream_requests_total",
				Help: "Total number of upstream requests by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "interview_prep_upstream_request_duration_seconds",
				Help:    "Duration of single upstream HTTP attempts in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"op"},
		),
		retriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "interview_prep_upstream_retries_total",
				Help: "Total number of retried upstream attempts",
			},
			[]string{"op"},
		),
		fallbacksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "interview_prep_catalog_fallbacks_total",
				Help: "Times the full catalog was taken from the REST fallback",
			},
		),
		catalogEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "interview_prep_catalog_entries",
				Help: "Number of entries in the last fetched full catalog",
			},
		),
		rateLimitWaiting: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "interview_prep_rate_limit_wait_seconds",
				Help:    "Time spent waiting for rate limiter capacity",
				Buckets: []float64{0.001, 0.01, 0.1, 0.25, 0.5, 1.0, 2.0},
			},
			[]string{"op"},
		),
	}

	collectors := []prometheus.Collector{
		m.requestsTotal, m.requestDuration, m.retriesTotal,
		m.fallbacksTotal, m.catalogEntries, m.rateLimitWaiting,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeAttempt(op string, err error, took time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = "canceled"
	case err != nil:
		outcome = KindOf(err).String()
	}
	m.requestsTotal.WithLabelValues(op, outcome).Inc()
	m.requestDuration.WithLabelValues(op).Observe(took.Seconds())
}

func (m *Metrics) observeWait(op string, took time.Duration) {
	if m == nil {
		return
	}
	m.rateLimitWaiting.WithLabelValues(op).Observe(took.Seconds())
}

func (m *Metrics) retried(op string) {
	if m == nil {
		return
	}
	m.retriesTotal.WithLabelValues(op).Inc()
}

func (m *Metrics) fellBack() {
	if m == nil {
		return
	}
	m.fallbacksTotal.Inc()
}

func (m *Metrics) catalogSize(n int) {
	if m == nil {
		return
	}
	m.catalogEntries.Set(float64(n))
}
