package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Read failure reasons.
const (
	reasonIO        = "io"
	reasonMalformed = "malformed"
	reasonDropped   = "entry_dropped"
)

var (
	storageWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopstate_storage_writes_total",
			Help: "Write-through attempts by key and result",
		},
		[]string{"key", "result"},
	)

	storageReadFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopstate_storage_read_failures_total",
			Help: "Persisted values that could not be read back as-is, by key and reason",
		},
		[]string{"key", "reason"},
	)

	staleLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopstate_stale_loads_discarded_total",
			Help: "Load results discarded because a newer load or mutation had already been applied",
		},
		[]string{"key"},
	)
)
