package check

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Checker metrics
	BlocksChecked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blockdoctor_blocks_checked_total",
			Help: "Total number of cached blocks compared against upstream",
		},
	)

	Divergences = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "blockdoctor_divergences_total",
			Help: "Total number of cached blocks found divergent from upstream",
		},
	)
)

func BlocksCheckedInc() {
	BlocksChecked.Inc()
}

func DivergencesInc() {
	Divergences.Inc()
}
