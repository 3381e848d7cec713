package messaging

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nuemind/student-profile/internal/domain/shared"
)

// Handler results recorded in eventbus_handler_executions_total.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// EventBusMetrics holds the bus's Prometheus collectors.
type EventBusMetrics struct {
	Published       *prometheus.CounterVec
	HandlerExecs    *prometheus.CounterVec
	HandlerDuration prometheus.Histogram
}

// NewEventBusMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewEventBusMetrics(reg prometheus.Registerer) (*EventBusMetrics, error) {
	m := newEventBusMetrics()
	if reg == nil {
		return m, nil
	}

	for _, c := range []prometheus.Collector{m.Published, m.HandlerExecs, m.HandlerDuration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("messaging: register metrics: %w", err)
		}
	}

	return m, nil
}

func newEventBusMetrics() *EventBusMetrics {
	return &EventBusMetrics{
		Published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eventbus_events_published_total",
			Help: "Events published on the bus by type.",
		}, []string{"event_type"}),
		HandlerExecs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eventbus_handler_executions_total",
			Help: "Handler executions by event type and result.",
		}, []string{"event_type", "result"}),
		HandlerDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "eventbus_handler_duration_seconds",
			Help:    "Duration of event handler executions.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// RecordPublish records a publish.
func (m *EventBusMetrics) RecordPublish(eventType shared.EventType) {
	m.Published.WithLabelValues(string(eventType)).Inc()
}

// RecordHandlerExecution records one handler run. A panic counts as a failure.
func (m *EventBusMetrics) RecordHandlerExecution(eventType shared.EventType, duration time.Duration, success bool) {
	result := ResultSuccess
	if !success {
		result = ResultFailure
	}
	m.HandlerExecs.WithLabelValues(string(eventType), result).Inc()
	m.HandlerDuration.Observe(duration.Seconds())
}
