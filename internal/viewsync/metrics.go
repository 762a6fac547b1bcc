package viewsync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var focusReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "shopstate_focus_reloads_total",
	Help: "Total number of focus-gain reloads by screen.",
}, []string{"screen"})
