package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// SetupPrometheus creates the registry served on /metrics. Besides the runtime
// and process collectors it exposes a constant <service>_build_info gauge
// carrying the deployed version.
func SetupPrometheus(serviceName, versionInfo string) *prometheus.Registry {
	promRegistry := prometheus.NewRegistry()

	buildInfo := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "cycling_profile",
		Name:        "build_info",
		Help:        "Always 1, labeled with the running service and its version.",
		ConstLabels: prometheus.Labels{"service": serviceName, "version": versionInfo},
	})
	buildInfo.Set(1)

	promRegistry.MustRegister(
		buildInfo,
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(collectors.MetricsGC, collectors.MetricsScheduler),
		),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return promRegistry
}
