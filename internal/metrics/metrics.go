package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysisRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "structure_analysis_total", Help: "Structure analysis runs by resulting state"},
		[]string{"state"},
	)
	WatcherCycles = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "watcher_cycles_total", Help: "Completed watcher poll cycles"},
	)
	Transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signal_transitions_total", Help: "Realized signal transitions by target state"},
		[]string{"to"},
	)
	NearMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "near_misses_total", Help: "Price observations within the near-miss band of a level"},
		[]string{"level"},
	)
	StoreConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "store_conflicts_total", Help: "Conditional updates that matched zero rows"},
	)
)

func init() {
	prometheus.MustRegister(AnalysisRuns, WatcherCycles, Transitions, NearMisses, StoreConflicts)
}

// Serve exposes /metrics on the given address in the background.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
