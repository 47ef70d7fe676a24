package connection

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type connectionMetrics struct {
	tokenProbeCounter       *prometheus.CounterVec
	routeTableFallbackCount prometheus.Counter
	comparisonOrgFailures   prometheus.Counter
}

var metrics *connectionMetrics

func init() {
	metrics = new(connectionMetrics)

	metrics.tokenProbeCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mist_comparison_token_probe_count",
		Help: "The number of api token probes per outcome",
	}, []string{"outcome"})

	metrics.routeTableFallbackCount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mist_comparison_route_table_fallback_count",
		Help: "The number of org lookups that fell back to the first working token",
	})

	metrics.comparisonOrgFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mist_comparison_org_failure_count",
		Help: "The number of orgs that failed during a comparison run",
	})
}
