package mist

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type mistClientMetrics struct {
	apiCallCounter    *prometheus.CounterVec
	apiFailureCounter *prometheus.CounterVec
}

var metrics *mistClientMetrics

func init() {
	metrics = new(mistClientMetrics)

	metrics.apiCallCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mist_comparison_api_call_count",
		Help: "The number of calls made to the Mist API per endpoint",
	}, []string{"endpoint"})

	metrics.apiFailureCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mist_comparison_api_failure_count",
		Help: "The number of failed Mist API calls per endpoint",
	}, []string{"endpoint"})
}
