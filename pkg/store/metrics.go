package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// opsTotal counts driver operations by kind and outcome. Exposed on
// /metrics via the default registry.
var opsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pirsvc",
	Subsystem: "store",
	Name:      "ops_total",
	Help:      "Pebble driver operations by op and result.",
}, []string{"op", "result"})
