package artifact

import "github.com/prometheus/client_golang/prometheus"

// Metrics wraps Prometheus counters for store operations. Each Metrics
// carries its own registry so multiple stores can coexist in one process
// without collisions. All observation methods are nil-safe; a store without
// metrics attached pays nothing.
type Metrics struct {
	registry *prometheus.Registry

	Operations        *prometheus.CounterVec
	Bytes             *prometheus.CounterVec
	IntegrityFailures prometheus.Counter
}

// NewMetrics creates a Metrics with a dedicated registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "runstore",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total store operations by operation and result",
		}, []string{"op", "status"}),
		Bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "runstore",
			Subsystem: "store",
			Name:      "bytes_total",
			Help:      "Total bytes transferred by operation",
		}, []string{"op"}),
		IntegrityFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "runstore",
			Subsystem: "store",
			Name:      "integrity_failures_total",
			Help:      "Total digest mismatches detected on read",
		}),
	}
	reg.MustRegister(m.Operations, m.Bytes, m.IntegrityFailures)
	return m
}

// Registry exposes the underlying registry for scraping.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observe(op, status string) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(op, status).Inc()
}

func (m *Metrics) addBytes(op string, n int) {
	if m == nil {
		return
	}
	m.Bytes.WithLabelValues(op).Add(float64(n))
}

func (m *Metrics) integrityFailure() {
	if m == nil {
		return
	}
	m.IntegrityFailures.Inc()
}
