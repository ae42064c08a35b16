// Package telemetry exports Prometheus metrics for predictive prompts.
package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/davidbz/promptmeter/internal/domain"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for promptmeter.
type Metrics struct {
	InvocationsTotal  *prometheus.CounterVec
	ProviderLatencyMs *prometheus.HistogramVec
	CostUSDTotal      *prometheus.CounterVec
	TokensTotal       *prometheus.CounterVec
	PredictionTokens  *prometheus.CounterVec
}

// NewMetrics creates all metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		InvocationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "promptmeter_invocations_total",
			Help: "Total number of predictive prompt invocations.",
		}, []string{"alias", "status"}),

		ProviderLatencyMs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "promptmeter_provider_latency_ms",
			Help:    "Completion provider round-trip time in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		}, []string{"alias"}),

		CostUSDTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "promptmeter_cost_usd_total",
			Help: "Total cost of completed invocations in USD.",
		}, []string{"alias"}),

		TokensTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "promptmeter_tokens_total",
			Help: "Total tokens reported by the provider.",
		}, []string{"alias", "direction"}),

		PredictionTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "promptmeter_prediction_tokens_total",
			Help: "Predicted output tokens accepted or rejected by the provider.",
		}, []string{"alias", "outcome"}),
	}

	for _, c := range []prometheus.Collector{
		m.InvocationsTotal, m.ProviderLatencyMs, m.CostUSDTotal, m.TokensTotal, m.PredictionTokens,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// HandleEvent records a predictive prompt event. It matches
// observability.EventHandler so it can subscribe to the event bus.
func (m *Metrics) HandleEvent(_ context.Context, eventType string, data map[string]interface{}) {
	alias, _ := data[domain.EventKeyAlias].(string)

	switch eventType {
	case domain.EventPromptCompleted:
		m.InvocationsTotal.WithLabelValues(alias, statusSuccess).Inc()
		m.ProviderLatencyMs.WithLabelValues(alias).Observe(floatValue(data[domain.EventKeyRunTimeMs]))

		if cost := floatValue(data[domain.EventKeyCostUSD]); cost > 0 {
			m.CostUSDTotal.WithLabelValues(alias).Add(cost)
		}

		m.addTokens(m.TokensTotal, alias, "input", data[domain.EventKeyInputTokens])
		m.addTokens(m.TokensTotal, alias, "output", data[domain.EventKeyOutputTokens])
		m.addTokens(m.PredictionTokens, alias, "accepted", data[domain.EventKeyAccepted])
		m.addTokens(m.PredictionTokens, alias, "rejected", data[domain.EventKeyRejected])

	case domain.EventPromptFailed:
		m.InvocationsTotal.WithLabelValues(alias, statusError).Inc()
	}
}

func (m *Metrics) addTokens(vec *prometheus.CounterVec, alias, label string, value interface{}) {
	if tokens := floatValue(value); tokens > 0 {
		vec.WithLabelValues(alias, label).Add(tokens)
	}
}

func floatValue(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}
