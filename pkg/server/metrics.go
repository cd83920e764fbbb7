package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters exported on /metrics
type Metrics struct {
	Renders   *prometheus.CounterVec
	APIErrors *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mlviz",
				Name:      "renders_total",
				Help:      "Charts rendered, by chart kind and format.",
			}, []string{"chart", "format"}),
		APIErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mlviz",
				Name:      "api_errors_total",
				Help:      "Failed calls to the training service, by route.",
			}, []string{"route"}),
	}
	reg.MustRegister(m.Renders, m.APIErrors)
	return m
}

// Rendered counts a successful render
func (m *Metrics) Rendered(chart, format string) {
	m.Renders.WithLabelValues(chart, format).Inc()
}

// Failed counts a failed API call
func (m *Metrics) Failed(route string) {
	m.APIErrors.WithLabelValues(route).Inc()
}
