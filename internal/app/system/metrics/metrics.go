// Package metrics exposes the Prometheus collectors of the schedule import
// engine and the handler that serves them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BackendCalls counts calls to the schedule backend by operation and outcome
	// ("ok", "invalid", "error").
	BackendCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jadwalhub",
		Name:      "backend_calls_total",
		Help:      "Calls to the schedule backend by operation and outcome.",
	}, []string{"op", "outcome"})

	// BackendLatency observes backend call latency in seconds.
	BackendLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "jadwalhub",
		Name:      "backend_call_seconds",
		Help:      "Latency of schedule backend calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})

	// Uploads counts spreadsheet uploads by category and outcome
	// ("parsed", "rejected").
	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jadwalhub",
		Name:      "import_uploads_total",
		Help:      "Spreadsheet uploads by category and outcome.",
	}, []string{"category", "outcome"})

	// ValidationErrors counts cell errors raised by batch validation.
	ValidationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jadwalhub",
		Name:      "validation_errors_total",
		Help:      "Cell errors raised while validating import rows.",
	}, []string{"category"})

	// RowsImported counts rows accepted by the backend import endpoint.
	RowsImported = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jadwalhub",
		Name:      "rows_imported_total",
		Help:      "Schedule rows accepted by the backend import endpoint.",
	}, []string{"category"})

	// SnapshotReloads counts reference data reloads by outcome.
	SnapshotReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jadwalhub",
		Name:      "snapshot_reloads_total",
		Help:      "Reference data reloads by outcome.",
	}, []string{"outcome"})

	// DraftsPurged counts stale import drafts removed by the cleanup worker.
	DraftsPurged = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "jadwalhub",
		Name:      "drafts_purged_total",
		Help:      "Stale import drafts removed by the cleanup worker.",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
