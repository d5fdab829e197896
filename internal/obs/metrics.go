package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// A CLI process has no scrape endpoint, so metrics accumulate in a
// private registry and are flushed to a textfile on exit for the node
// exporter's textfile collector to pick up.
var (
	registry = prometheus.NewRegistry()

	loginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "epicevents_logins_total",
			Help: "Login attempts by result.",
		},
		[]string{"result"},
	)

	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "epicevents_operations_total",
			Help: "Data operations by entity, operation and result.",
		},
		[]string{"entity", "op", "result"},
	)

	denialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "epicevents_permission_denials_total",
			Help: "Operations refused by the permission policy.",
		},
		[]string{"entity", "op"},
	)
)

// Init registers the process metrics.
func Init() {
	registry.MustRegister(loginsTotal, operationsTotal, denialsTotal, buildInfo)
}

// RecordLogin counts one login attempt. Result is "success" or
// "failure".
func RecordLogin(result string) {
	loginsTotal.WithLabelValues(result).Inc()
}

// RecordOperation counts one data operation.
func RecordOperation(entity, op, result string) {
	operationsTotal.WithLabelValues(entity, op, result).Inc()
}

// RecordDenial counts one refused operation.
func RecordDenial(entity, op string) {
	denialsTotal.WithLabelValues(entity, op).Inc()
}

// WriteTextfile flushes the registry to path in the exposition format.
// A best-effort call on shutdown; an empty path disables it.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, registry)
}
