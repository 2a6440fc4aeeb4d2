package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts broker operations served over HTTP.
type Metrics struct {
	ops *prometheus.CounterVec
}

// NewMetrics registers the operation counter on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mailveil",
			Name:      "broker_operations_total",
			Help:      "Broker operations served over HTTP, by operation and outcome.",
		}, []string{"op", "outcome"}),
	}
	reg.MustRegister(m.ops)
	return m
}

func (m *Metrics) observe(op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ops.WithLabelValues(op, outcome).Inc()
}
