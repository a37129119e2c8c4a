// Package metrics exposes Prometheus instruments for the reconciliation
// engine. The bill service serves them at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Mutations counts entry mutations by kind ("item", "fee"),
	// op ("create", "update", "delete") and result ("confirmed", "failed").
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "splitter",
		Name:      "mutations_total",
		Help:      "Entry mutations by kind, operation and result.",
	}, []string{"kind", "op", "result"})

	// ConsistencyWarnings counts mutations that confirmed remotely but
	// targeted an entry the local ledger does not hold. Non-fatal, but a
	// rising count means the local view keeps drifting from the service.
	ConsistencyWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "splitter",
		Name:      "consistency_warnings_total",
		Help:      "Confirmed mutations targeting entries absent from the local ledger.",
	})

	// ReconcileDrift counts reconciliations where the cached running total
	// disagreed with the authoritative re-sum and had to be replaced.
	ReconcileDrift = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "splitter",
		Name:      "reconcile_drift_total",
		Help:      "Reconciliations that found the cached total out of step with the re-sum.",
	})
)
