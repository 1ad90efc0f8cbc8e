package phases

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "trip_engine",
	Name:      "phase_transitions_total",
	Help:      "Successful phase transitions by target phase.",
}, []string{"target"})
