package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store metrics
	BlocksDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blockdoctor_store_blocks_deleted_total",
			Help: "Total number of cached block rows deleted",
		},
	)

	TruncateRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blockdoctor_store_truncate_runs_total",
			Help: "Total number of block cache truncations",
		},
	)
)

func BlocksDeletedAdd(count float64) {
	BlocksDeleted.Add(count)
}

func TruncateRunsInc() {
	TruncateRuns.Inc()
}
