package transport

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for request metrics.
const (
	outcomeSuccess   = "success"
	outcomeHTTPError = "http_error"
	outcomeTransport = "transport_error"
)

// Metrics holds the prometheus collectors updated by the transport.
type Metrics struct {
	Requests     *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
	CacheLookups *prometheus.CounterVec
}

// NewMetrics creates the transport collectors and registers them on reg.
// A nil reg leaves them unregistered. Collectors already registered on
// reg are reused, so several clients can share one registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Requests: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pactsafe",
			Name:      "requests_total",
			Help:      "Requests issued against the consent platform.",
		}, []string{"method", "endpoint", "outcome"})),
		Duration: register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pactsafe",
			Name:      "request_duration_seconds",
			Help:      "Latency of requests against the consent platform.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"})),
		CacheLookups: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pactsafe",
			Name:      "cache_lookups_total",
			Help:      "Response cache lookups by result.",
		}, []string{"result"})),
	}
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if reg == nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}

func (m *Metrics) observeRequest(method, endpoint, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, endpoint, outcome).Inc()
	m.Duration.WithLabelValues(method, endpoint).Observe(seconds)
}

func (m *Metrics) observeCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
