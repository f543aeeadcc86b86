// Package metrics provides Prometheus instrumentation for the qhttp
// framework: per-request counters and latency histograms recorded by
// the server, plus a handler that exposes the collected metrics as a
// route in Prometheus text format.
package metrics

import (
	"bytes"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/quadframe/qhttp/pkg/common"
	"github.com/quadframe/qhttp/pkg/wire"
)

// Metrics owns a Prometheus registry and the framework's collectors.
// A single Metrics value is shared read-only across all connection
// goroutines; the underlying collectors are safe for concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	parseErrorsTotal  prometheus.Counter
	connectionsTotal  prometheus.Counter
	connectionsActive prometheus.Gauge
}

// New creates a Metrics value with all collectors registered under the
// given namespace.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of requests by method and status code.",
		}, []string{"method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Request processing latency by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		parseErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_errors_total",
			Help:      "Total number of requests rejected during parsing.",
		}),
		connectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Total number of accepted connections.",
		}),
		connectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Number of currently open connections.",
		}),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.parseErrorsTotal,
		m.connectionsTotal,
		m.connectionsActive,
	)
	return m
}

// Registry exposes the underlying registry so callers can register
// their own collectors alongside the framework's.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one completed request.
func (m *Metrics) ObserveRequest(method string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// ObserveParseError records one request rejected during parsing.
func (m *Metrics) ObserveParseError() {
	m.parseErrorsTotal.Inc()
}

// ConnOpened records a newly accepted connection.
func (m *Metrics) ConnOpened() {
	m.connectionsTotal.Inc()
	m.connectionsActive.Inc()
}

// ConnClosed records a closed connection.
func (m *Metrics) ConnClosed() {
	m.connectionsActive.Dec()
}

// Handler returns a handler that renders the registry in Prometheus
// text exposition format, suitable for mounting as a GET route.
func (m *Metrics) Handler() common.Handler {
	return common.HandlerFunc(func(req *wire.Request) *wire.Response {
		families, err := m.registry.Gather()
		if err != nil {
			return wire.New(500, "Failed to gather metrics")
		}

		var buf bytes.Buffer
		enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
		for _, mf := range families {
			if err := enc.Encode(mf); err != nil {
				return wire.New(500, "Failed to encode metrics")
			}
		}

		resp := &wire.Response{StatusCode: 200, Body: buf.Bytes()}
		return resp.WithHeader("Content-Type", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
	})
}
