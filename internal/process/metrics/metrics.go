package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the process module.
// Tracks intake volume, monitoring cycle transitions and operation durations.
type Metrics struct {
	ProcessesCreated      prometheus.Counter
	MonitoringTransitions *prometheus.CounterVec
	Supersessions         prometheus.Counter
	ManualConclusions     prometheus.Counter
	OperationDuration     *prometheus.HistogramVec
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the process metrics on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ProcessesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "protocolo_processes_created_total",
			Help: "Total number of processes registered",
		}),
		MonitoringTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "protocolo_monitoring_transitions_total",
			Help: "Monitoring status transitions applied while listing closed processes",
		}, []string{"kind"}),
		Supersessions: factory.NewCounter(prometheus.CounterOpts{
			Name: "protocolo_monitoring_supersessions_total",
			Help: "Monitoring cycles concluded automatically by a newer process with the same number",
		}),
		ManualConclusions: factory.NewCounter(prometheus.CounterOpts{
			Name: "protocolo_monitoring_manual_conclusions_total",
			Help: "Monitoring cycles concluded by a user",
		}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "protocolo_process_operation_duration_seconds",
			Help:    "Duration of process service operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

// IncrementProcessesCreated records a successful intake.
func (m *Metrics) IncrementProcessesCreated() {
	m.ProcessesCreated.Inc()
}

// IncrementTransition records one reconcile transition ("overdue" or "reopened").
func (m *Metrics) IncrementTransition(kind string) {
	m.MonitoringTransitions.WithLabelValues(kind).Inc()
}

func (m *Metrics) AddSupersessions(n int) {
	m.Supersessions.Add(float64(n))
}

func (m *Metrics) IncrementManualConclusions() {
	m.ManualConclusions.Inc()
}

// ObserveOperation records the duration of a service operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
