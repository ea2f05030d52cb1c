package repository

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "task_store_query_duration_seconds",
			Help:    "Task store operation latency, including connection acquisition",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
	QueryErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_store_errors_total",
			Help: "Task store operations that failed",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(QueryErrors)
}
