package service

import "github.com/prometheus/client_golang/prometheus"

// Registry event labels.
const (
	EventRegistered = "registered"
	EventRenewed    = "renewed"
	EventCancelled  = "cancelled"
	EventStatus     = "status"
	EventEvicted    = "evicted"
)

// RegistryMetrics exposes registry activity to Prometheus. A nil *RegistryMetrics is a no-op.
type RegistryMetrics struct {
	events    *prometheus.CounterVec
	instances prometheus.Gauge
}

// NewRegistryMetrics creates and registers the registry collectors.
func NewRegistryMetrics(reg prometheus.Registerer) (*RegistryMetrics, error) {
	m := &RegistryMetrics{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "registry_events_total",
				Help: "Registry operations by event type.",
			},
			[]string{"event"},
		),
		instances: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "registry_instances",
			Help: "Instances holding a live lease after the last eviction pass.",
		}),
	}
	if err := reg.Register(m.events); err != nil {
		return nil, err
	}
	if err := reg.Register(m.instances); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *RegistryMetrics) observe(event string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.events.WithLabelValues(event).Add(float64(n))
}

func (m *RegistryMetrics) setInstances(n int) {
	if m == nil {
		return
	}
	m.instances.Set(float64(n))
}
