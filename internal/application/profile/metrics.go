package profile

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Load results recorded in profile_loads_total.
const (
	ResultSuccess = "success"
)

// Metrics holds the loader's Prometheus collectors.
type Metrics struct {
	Loads    *prometheus.CounterVec
	Duration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "profile_loads_total",
			Help: "Profile loads by result.",
		}, []string{"result"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "profile_load_duration_seconds",
			Help:    "Duration of profile loads.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	if reg == nil {
		return m, nil
	}

	for _, c := range []prometheus.Collector{m.Loads, m.Duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("profile: register metrics: %w", err)
		}
	}

	return m, nil
}

func (m *Metrics) observe(result string, elapsed time.Duration) {
	m.Loads.WithLabelValues(result).Inc()
	m.Duration.Observe(elapsed.Seconds())
}
