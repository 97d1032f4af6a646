package push

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var deliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "push_deliveries_total",
	Help: "Push delivery attempts by settled outcome.",
}, []string{"outcome"})

var (
	deliveredCounter = deliveriesTotal.WithLabelValues("delivered")
	goneCounter      = deliveriesTotal.WithLabelValues("gone")
	transientCounter = deliveriesTotal.WithLabelValues("transient")
)
