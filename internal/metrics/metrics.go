// Package metrics registers the process-wide prometheus collectors and the
// optional /metrics endpoint.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "records_total", Help: "Records emitted by state label"},
		[]string{"label"},
	)
	SignalClassTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signal_classifications_total", Help: "Per-signal classifications computed"},
		[]string{"signal", "class"},
	)
	FetchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fetch_requests_total", Help: "Price download requests by outcome"},
		[]string{"ticker", "status"},
	)
)

func init() {
	prometheus.MustRegister(RecordsTotal, SignalClassTotal, FetchRequestsTotal)
}

// Serve exposes /metrics on addr in the background.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
