package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	globalMetrics *Metrics
	globalMu      sync.RWMutex
)

// Metrics holds all Prometheus metrics for the forms service
type Metrics struct {
	// Form submission counters
	SignupsTotal   *prometheus.CounterVec
	InquiriesTotal *prometheus.CounterVec

	// Email counters
	EmailsSentTotal   *prometheus.CounterVec
	EmailsFailedTotal *prometheus.CounterVec

	// Upstream call metrics
	UpstreamRequestDurationSeconds *prometheus.HistogramVec
	UpstreamErrorsTotal            *prometheus.CounterVec

	// API metrics
	APIRequestsTotal          *prometheus.CounterVec
	APIRequestDurationSeconds *prometheus.HistogramVec
	APIErrorsTotal            *prometheus.CounterVec

	// System metrics
	UptimeSeconds prometheus.Gauge
	Goroutines    prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a new Metrics instance with all metrics registered
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		SignupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formsd_signups_total",
				Help: "Total number of waitlist signup submissions by outcome",
			},
			[]string{"outcome"},
		),
		InquiriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formsd_inquiries_total",
				Help: "Total number of contact inquiry submissions by outcome",
			},
			[]string{"outcome"},
		),

		EmailsSentTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formsd_emails_sent_total",
				Help: "Total number of emails delivered to the email service",
			},
			[]string{"template"},
		),
		EmailsFailedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formsd_emails_failed_total",
				Help: "Total number of email delivery attempts that failed",
			},
			[]string{"template"},
		),

		UpstreamRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "formsd_upstream_request_duration_seconds",
				Help:    "Duration of upstream REST calls in seconds",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"service", "operation"},
		),
		UpstreamErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formsd_upstream_errors_total",
				Help: "Total number of failed upstream REST calls",
			},
			[]string{"service", "operation"},
		),

		APIRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formsd_api_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"method", "path", "status"},
		),
		APIRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "formsd_api_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		APIErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formsd_api_errors_total",
				Help: "Total number of API errors",
			},
			[]string{"error_type"},
		),

		UptimeSeconds: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "formsd_uptime_seconds",
				Help: "Server uptime in seconds",
			},
		),
		Goroutines: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "formsd_goroutines",
				Help: "Number of active goroutines",
			},
		),

		registry: reg,
	}

	reg.MustRegister(
		m.SignupsTotal,
		m.InquiriesTotal,
		m.EmailsSentTotal,
		m.EmailsFailedTotal,
		m.UpstreamRequestDurationSeconds,
		m.UpstreamErrorsTotal,
		m.APIRequestsTotal,
		m.APIRequestDurationSeconds,
		m.APIErrorsTotal,
		m.UptimeSeconds,
		m.Goroutines,
	)

	return m
}

// Registry returns the Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// SetGlobal sets the global metrics instance
func SetGlobal(m *Metrics) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalMetrics = m
}

// Global returns the global metrics instance, or nil when metrics are
// disabled
func Global() *Metrics {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalMetrics
}

// IncSignups increments the signup counter for an outcome
func IncSignups(outcome string) {
	m := Global()
	if m != nil {
		m.SignupsTotal.WithLabelValues(outcome).Inc()
	}
}

// IncInquiries increments the inquiry counter for an outcome
func IncInquiries(outcome string) {
	m := Global()
	if m != nil {
		m.InquiriesTotal.WithLabelValues(outcome).Inc()
	}
}

// IncEmailsSent increments the sent email counter for a template variant
func IncEmailsSent(template string) {
	m := Global()
	if m != nil {
		m.EmailsSentTotal.WithLabelValues(template).Inc()
	}
}

// IncEmailsFailed increments the failed email counter for a template variant
func IncEmailsFailed(template string) {
	m := Global()
	if m != nil {
		m.EmailsFailedTotal.WithLabelValues(template).Inc()
	}
}

// ObserveUpstream records the duration and outcome of one upstream REST call
func ObserveUpstream(service, operation string, d time.Duration, failed bool) {
	m := Global()
	if m == nil {
		return
	}
	m.UpstreamRequestDurationSeconds.WithLabelValues(service, operation).Observe(d.Seconds())
	if failed {
		m.UpstreamErrorsTotal.WithLabelValues(service, operation).Inc()
	}
}
