package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the Kafka audit sink.
type Metrics struct {
	Published    prometheus.Counter
	Failures     prometheus.Counter
	Dropped      prometheus.Counter
	BreakerState prometheus.Gauge
}

// NewMetrics registers the sink metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Published: promauto.NewCounter(prometheus.CounterOpts{
			Name: "protocolo_audit_kafka_published_total",
			Help: "Audit events produced to Kafka",
		}),
		Failures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "protocolo_audit_kafka_failures_total",
			Help: "Audit events Kafka rejected or timed out",
		}),
		Dropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "protocolo_audit_kafka_dropped_total",
			Help: "Audit events dropped while the circuit breaker was open",
		}),
		BreakerState: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "protocolo_audit_kafka_breaker_open",
			Help: "1 while the Kafka circuit breaker is open",
		}),
	}
}

func (m *Metrics) published() {
	if m != nil {
		m.Published.Inc()
	}
}

func (m *Metrics) failed(open bool) {
	if m == nil {
		return
	}
	m.Failures.Inc()
	if open {
		m.BreakerState.Set(1)
	}
}

func (m *Metrics) dropped() {
	if m != nil {
		m.Dropped.Inc()
	}
}

func (m *Metrics) closed() {
	if m != nil {
		m.BreakerState.Set(0)
	}
}
