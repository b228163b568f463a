// Package observability holds the Prometheus metrics of the SSO service.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login results.
const (
	LoginSuccess          = "success"
	LoginFailure          = "failure"
	LoginCallbackRejected = "callback_rejected"
	LoginError            = "error"
)

// Metrics contains the custom Prometheus metrics for the service. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	LoginAttempts   *prometheus.CounterVec
	TokensIssued    prometheus.Counter
	TokenRejections *prometheus.CounterVec
	SessionWrites   *prometheus.CounterVec
	SessionsPruned  prometheus.Counter
	HashDuration    prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates a registry with the Go and process collectors and the
// service metrics registered on it.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		LoginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sso_login_attempts_total",
				Help: "Total number of login attempts by result",
			},
			[]string{"result"},
		),
		TokensIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sso_tokens_issued_total",
			Help: "Total number of tokens issued",
		}),
		TokenRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sso_token_rejections_total",
				Help: "Total number of refused token requests by reason",
			},
			[]string{"reason"},
		),
		SessionWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sso_session_writes_total",
				Help: "Total number of durable session writes by operation and result",
			},
			[]string{"op", "result"},
		),
		SessionsPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sso_sessions_pruned_total",
			Help: "Total number of expired sessions removed by housekeeping",
		}),
		HashDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sso_password_hash_duration_seconds",
			Help:    "Histogram of password derivation latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		registry: registry,
	}

	registry.MustRegister(
		m.LoginAttempts,
		m.TokensIssued,
		m.TokenRejections,
		m.SessionWrites,
		m.SessionsPruned,
		m.HashDuration,
	)

	return m
}

// RegisterActiveSessions exposes the number of live sessions as a gauge that
// is computed on every scrape.
func (m *Metrics) RegisterActiveSessions(count func() int) {
	if m == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "sso_active_sessions",
		Help: "Number of sessions that have not expired",
	}, func() float64 { return float64(count()) }))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordLogin(result string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordTokenIssued() {
	if m == nil {
		return
	}
	m.TokensIssued.Inc()
}

func (m *Metrics) RecordTokenRejected(reason string) {
	if m == nil {
		return
	}
	m.TokenRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordSessionWrite(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.SessionWrites.WithLabelValues(op, result).Inc()
}

func (m *Metrics) RecordSessionsPruned(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SessionsPruned.Add(float64(n))
}

func (m *Metrics) ObserveHashDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.HashDuration.Observe(d.Seconds())
}
