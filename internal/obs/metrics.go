package obs

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the Prometheus collectors for the simulator.
type Metrics struct {
	SimulationsTotal   *prometheus.CounterVec
	SimulationDuration prometheus.Histogram
	ShavingMultiplier  prometheus.Histogram
	HTTPRequestsTotal  *prometheus.CounterVec
}

// NewMetrics registers and returns the simulator collectors. A nil
// registerer uses the default one.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		SimulationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_total",
			Help:      "Count of payout simulations by outcome.",
		}, []string{"outcome"}),
		SimulationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "simulation_duration_seconds",
			Help:      "Time spent computing one payout simulation.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		ShavingMultiplier: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "shaving_multiplier",
			Help:      "Distribution of room-rent shaving multipliers applied to bills.",
			Buckets:   []float64{0.25, 0.5, 0.6, 0.7, 0.8, 0.9, 0.99, 1},
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "path", "status"}),
	}
	m.SimulationsTotal = register(reg, m.SimulationsTotal)
	m.SimulationDuration = register(reg, m.SimulationDuration)
	m.ShavingMultiplier = register(reg, m.ShavingMultiplier)
	m.HTTPRequestsTotal = register(reg, m.HTTPRequestsTotal)
	return m
}

// register reuses an already registered collector of the same shape.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(fmt.Errorf("register metric: %w", err))
	}
	return c
}
