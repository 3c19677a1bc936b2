package instrumentation

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains all Prometheus metrics for the MCP server.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal     *prometheus.CounterVec
	ToolCallsTotal    *prometheus.CounterVec
	DispatchLatencyMs *prometheus.HistogramVec
	CacheLookupsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics on a private
// registry, together with the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// JSON-RPC requests by method and outcome
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mcp_requests_total",
			Help: "Total number of JSON-RPC requests by method and outcome",
		}, []string{"method", "outcome"}),

		// tools/call by tool name
		ToolCallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mcp_tool_calls_total",
			Help: "Total number of tool invocations by tool and outcome",
		}, []string{"tool", "outcome"}),

		DispatchLatencyMs: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mcp_dispatch_latency_ms",
			Help:    "Time to dispatch a JSON-RPC request in milliseconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100, 250, 500},
		}, []string{"method"}),

		CacheLookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mcp_cache_lookups_total",
			Help: "Result cache lookups by result (hit, miss, error)",
		}, []string{"result"}),
	}
}

// ObserveDispatch records one dispatched request.
func (m *Metrics) ObserveDispatch(method, outcome string, latency time.Duration) {
	m.RequestsTotal.WithLabelValues(method, outcome).Inc()
	m.DispatchLatencyMs.WithLabelValues(method).Observe(float64(latency.Microseconds()) / 1000)
}

// ObserveToolCall records one tools/call outcome.
func (m *Metrics) ObserveToolCall(tool, outcome string) {
	m.ToolCallsTotal.WithLabelValues(tool, outcome).Inc()
}

// ObserveCacheLookup records a result cache hit, miss or error.
func (m *Metrics) ObserveCacheLookup(result string) {
	m.CacheLookupsTotal.WithLabelValues(result).Inc()
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
