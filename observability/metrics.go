// Package observability exposes Prometheus metrics for the gateway and the
// chat bridge.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one process. Every collector lives on a
// private registry so several instances can coexist in tests.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// RPCRequests counts gateway requests.
	// Labels: method, outcome (ok|error|notification)
	RPCRequests *prometheus.CounterVec

	// ToolCalls counts tool executions inside the gateway.
	// Labels: tool, outcome (ok|upstream_error|invalid|failed)
	ToolCalls *prometheus.CounterVec

	// ProviderRequests counts outbound LLM calls.
	// Labels: provider, status (success|error)
	ProviderRequests *prometheus.CounterVec

	// ProviderDuration measures LLM call latency in seconds.
	// Labels: provider
	ProviderDuration *prometheus.HistogramVec

	// LoopRounds records how many provider rounds a chat needed.
	// Labels: provider
	LoopRounds *prometheus.HistogramVec

	// ChatErrors counts chat bridge failures by error code.
	// Labels: code
	ChatErrors *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RPCRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bosun_rpc_requests_total",
				Help: "Total number of tool gateway requests by method and outcome",
			},
			[]string{"method", "outcome"},
		),

		ToolCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bosun_tool_calls_total",
				Help: "Total number of tool executions by tool and outcome",
			},
			[]string{"tool", "outcome"},
		),

		ProviderRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bosun_llm_requests_total",
				Help: "Total number of LLM provider requests by provider and status",
			},
			[]string{"provider", "status"},
		),

		ProviderDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bosun_llm_request_duration_seconds",
				Help:    "Duration of LLM provider requests in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider"},
		),

		LoopRounds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bosun_agent_rounds",
				Help:    "Number of provider rounds used per chat request",
				Buckets: []float64{1, 2, 3, 4, 5, 6},
			},
			[]string{"provider"},
		),

		ChatErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bosun_chat_errors_total",
				Help: "Total number of chat bridge errors by code",
			},
			[]string{"code"},
		),
	}
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the exposition format for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRPC counts one gateway request.
func (m *Metrics) RecordRPC(method, outcome string) {
	if m == nil {
		return
	}
	m.RPCRequests.WithLabelValues(method, outcome).Inc()
}

// RecordToolCall counts one tool execution.
func (m *Metrics) RecordToolCall(tool, outcome string) {
	if m == nil {
		return
	}
	m.ToolCalls.WithLabelValues(tool, outcome).Inc()
}

// RecordProviderRequest records an outbound LLM call.
func (m *Metrics) RecordProviderRequest(provider, status string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(provider, status).Inc()
	m.ProviderDuration.WithLabelValues(provider).Observe(durationSeconds)
}

// RecordRounds records the number of rounds a chat request used.
func (m *Metrics) RecordRounds(provider string, rounds int) {
	if m == nil {
		return
	}
	m.LoopRounds.WithLabelValues(provider).Observe(float64(rounds))
}

// RecordChatError counts a chat bridge failure.
func (m *Metrics) RecordChatError(code string) {
	if m == nil {
		return
	}
	m.ChatErrors.WithLabelValues(code).Inc()
}
