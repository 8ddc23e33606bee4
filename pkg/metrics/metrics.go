package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "relay_cycles_total", Help: "Completed dispatch cycles"},
		[]string{"outcome"},
	)
	FetchFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "relay_fetch_failures_total", Help: "Failed tick fetches"},
		[]string{"symbol"},
	)
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "relay_signals_total", Help: "Qualifying signals produced"},
		[]string{"symbol", "kind"},
	)
	DeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "relay_deliveries_total", Help: "Notification deliveries"},
		[]string{"symbol", "status"},
	)
)

func init() {
	prometheus.MustRegister(CyclesTotal, FetchFailuresTotal, SignalsTotal, DeliveriesTotal)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
