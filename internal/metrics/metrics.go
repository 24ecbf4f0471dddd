package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal counts finished analysis runs by final status
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "diet_pipeline",
		Name:      "runs_total",
		Help:      "Analysis runs by final status.",
	}, []string{"status"})

	// RecordsProcessed counts recipe records loaded by analysis runs
	RecordsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "diet_pipeline",
		Name:      "records_processed_total",
		Help:      "Recipe records loaded by analysis runs.",
	})

	// StageDuration observes how long each pipeline stage takes
	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "diet_pipeline",
		Name:      "stage_duration_seconds",
		Help:      "Duration of pipeline stages.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"stage"})

	// FunctionInvocations counts serverless job invocations by outcome
	FunctionInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "diet_pipeline",
		Name:      "function_invocations_total",
		Help:      "Serverless aggregation invocations by outcome.",
	}, []string{"outcome"})
)
