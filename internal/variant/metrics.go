package variant

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// combinationCount tracks the distribution of generated combination counts.
	combinationCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "variant_combinations_generated_count",
		Help:    "Number of combinations produced per generation request",
		Buckets: []float64{1, 4, 10, 25, 50, 100, 250, 500},
	})

	// explosionWarnings counts generations that exceeded the warn threshold.
	explosionWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "variant_combination_explosion_warnings_total",
		Help: "Total number of generations exceeding the explosion warn threshold",
	})

	// reconcileNewCombos tracks new combinations discovered per reconcile.
	reconcileNewCombos = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "variant_reconcile_new_combos_count",
		Help:    "New combinations discovered per reconciliation",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
	})

	// reconcileOrphans tracks orphaned variants detected per reconcile.
	reconcileOrphans = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "variant_reconcile_orphans_count",
		Help:    "Orphaned variants detected per reconciliation",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
	})

	// mergeApplied counts merge executions by policy.
	mergeApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "variant_merge_applied_total",
		Help: "Total number of merge executions by policy",
	}, []string{"policy"})

	// packsBuilt counts pack variants derived from base variants.
	packsBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Name: "variant_packs_built_total",
		Help: "Total number of pack variants built",
	})
)

func recordCombinationCount(n int) {
	combinationCount.Observe(float64(n))
}

func recordExplosionWarning() {
	explosionWarnings.Inc()
}

func recordReconcile(newCombos, orphans int) {
	reconcileNewCombos.Observe(float64(newCombos))
	reconcileOrphans.Observe(float64(orphans))
}

func recordMerge(policy string) {
	mergeApplied.WithLabelValues(policy).Inc()
}

func recordPackBuilt() {
	packsBuilt.Inc()
}
