package generator

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	hostsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "composegen",
			Subsystem: "generate",
			Name:      "hosts_total",
			Help:      "Hosts processed, by outcome (ok, partial, failed)",
		},
		[]string{"status"},
	)

	servicesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "composegen",
			Subsystem: "generate",
			Name:      "services_total",
			Help:      "Service descriptors emitted across all manifests",
		},
	)

	skippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "composegen",
			Subsystem: "generate",
			Name:      "skipped_total",
			Help:      "Assignments skipped or hosts failed, by reason",
		},
		[]string{"reason"},
	)

	manifestsWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "composegen",
			Subsystem: "generate",
			Name:      "manifests_written_total",
			Help:      "Manifest files written to disk",
		},
	)
)

func init() {
	prometheus.MustRegister(hostsTotal, servicesTotal, skippedTotal, manifestsWritten)
}

// WriteMetrics dumps the default registry in text format to path, for the
// node_exporter textfile collector.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
