package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups allocator collectors. Instances are registered on a caller
// supplied registry so that tests can create independent sets.
type Metrics struct {
	Allocations      *prometheus.CounterVec
	DeliveryFailures *prometheus.CounterVec
	Pending          prometheus.Gauge
	DeliveryLatency  prometheus.Histogram
}

// New creates allocator collectors
func New() *Metrics {
	return &Metrics{
		Allocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "mvplanning_allocations_total", Help: "Allocation outcomes"},
			[]string{"outcome"},
		),
		DeliveryFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "mvplanning_delivery_failures_total", Help: "Failed plan deliveries"},
			[]string{"vehicle"},
		),
		Pending: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "mvplanning_pending_tasks", Help: "Tasks waiting for a vehicle"},
		),
		DeliveryLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{Name: "mvplanning_delivery_seconds", Help: "Plan delivery latency"},
		),
	}
}

// Collectors returns all collectors
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.Allocations, m.DeliveryFailures, m.Pending, m.DeliveryLatency}
}

// Register registers all collectors with registerer
func (m *Metrics) Register(registerer prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := registerer.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveOutcome counts an allocation outcome
func (m *Metrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.Allocations.WithLabelValues(outcome).Inc()
}

// DeliveryFailed counts a failed delivery to vehicle
func (m *Metrics) DeliveryFailed(vehicle string) {
	if m == nil {
		return
	}
	m.DeliveryFailures.WithLabelValues(vehicle).Inc()
}

// SetPending sets the pending queue size
func (m *Metrics) SetPending(size int) {
	if m == nil {
		return
	}
	m.Pending.Set(float64(size))
}

// ObserveDelivery records delivery latency
func (m *Metrics) ObserveDelivery(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.DeliveryLatency.Observe(elapsed.Seconds())
}
