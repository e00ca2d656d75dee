// Package metrics содержит Prometheus-метрики запусков агентов и решений route gate.
// Методы безопасно вызывать на nil *Metrics: тогда ничего не записывается.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics хранит зарегистрированные коллекторы.
type Metrics struct {
	executions   *prometheus.CounterVec
	dispatchTime prometheus.Histogram
	gate         *prometheus.CounterVec
}

// New создаёт метрики и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bycomputer",
			Name:      "agent_executions_total",
			Help:      "Agent executions by outcome.",
		}, []string{"agent", "outcome"}),
		dispatchTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bycomputer",
			Name:      "agent_dispatch_duration_seconds",
			Help:      "Latency of the outbound call to the agent endpoint.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		gate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bycomputer",
			Name:      "route_gate_decisions_total",
			Help:      "Route gate decisions by path class and outcome.",
		}, []string{"class", "outcome"}),
	}
	reg.MustRegister(m.executions, m.dispatchTime, m.gate)
	return m
}

// Execution учитывает завершённый запуск агента.
func (m *Metrics) Execution(agent, outcome string) {
	if m == nil {
		return
	}
	m.executions.WithLabelValues(agent, outcome).Inc()
}

// Dispatch учитывает длительность внешнего вызова.
func (m *Metrics) Dispatch(d time.Duration) {
	if m == nil {
		return
	}
	m.dispatchTime.Observe(d.Seconds())
}

// Gate учитывает решение route gate.
func (m *Metrics) Gate(class, outcome string) {
	if m == nil {
		return
	}
	m.gate.WithLabelValues(class, outcome).Inc()
}
