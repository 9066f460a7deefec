// Package metrics provides Prometheus metrics for shell sessions.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Snapshot load outcomes.
const (
	LoadOK          = "loaded"
	LoadNotFound    = "not_found"
	LoadBadFormat   = "invalid_format"
	LoadError       = "error"
	LoadDefaultTree = "default"
)

var (
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vfsshell_commands_total",
			Help: "Total number of dispatched shell commands",
		},
		[]string{"command", "result"},
	)

	snapshotLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vfsshell_snapshot_loads_total",
			Help: "Session tree initializations by outcome",
		},
		[]string{"outcome"},
	)

	scriptLinesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vfsshell_script_lines_total",
			Help: "Total number of startup script lines executed",
		},
	)

	treeNodes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vfsshell_tree_nodes",
			Help: "Number of nodes in the most recently initialized tree",
		},
	)
)

// RecordCommand counts one dispatched command.
func RecordCommand(name string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	commandsTotal.WithLabelValues(name, result).Inc()
}

// RecordSnapshotLoad counts one tree initialization.
func RecordSnapshotLoad(outcome string) {
	snapshotLoadsTotal.WithLabelValues(outcome).Inc()
}

// RecordScriptLine counts one executed script line.
func RecordScriptLine() {
	scriptLinesTotal.Inc()
}

// SetTreeNodes records the size of the active tree.
func SetTreeNodes(n int) {
	treeNodes.Set(float64(n))
}

// Router returns the control router: /metrics for Prometheus and /healthz
// reporting the session's VFS name.
func Router(vfsName string) http.Handler {
	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s\n", vfsName)
	})
	return router
}
