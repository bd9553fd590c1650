// Package metrics exposes Prometheus counters for the metal ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConsumptionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jmsk_casting_consumptions_total",
		Help: "Completed casting consumption runs.",
	})

	ConsumptionsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jmsk_casting_consumptions_skipped_total",
		Help: "Casting events skipped for missing metal code or target weight.",
	})

	// GramsConsumed is labeled by kind: fine | alloy.
	GramsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jmsk_grams_consumed_total",
		Help: "Grams consumed by casting, split into fine metal and alloy.",
	}, []string{"kind"})

	DepositsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jmsk_metal_deposits_total",
		Help: "Recorded company metal deposits.",
	})

	PurchasesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jmsk_safe_purchases_total",
		Help: "Recorded safe purchases.",
	})
)
