package sync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "voyager",
		Subsystem: "sync",
		Name:      "operations_total",
		Help:      "Sync operations by kind and outcome.",
	}, []string{"operation", "outcome"})

	syncDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "voyager",
		Subsystem: "sync",
		Name:      "operation_duration_seconds",
		Help:      "Wall-clock duration of sync operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	orphanedDocs = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "voyager",
		Subsystem: "sync",
		Name:      "orphaned_expense_documents_total",
		Help:      "Remote expense documents left behind by partial cascade deletes.",
	})
)
