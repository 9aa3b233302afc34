package handler

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"

	"github.com/culinarynotes/culinarynotes/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeLabeled(w, "culinarynotes_entities_created_total", "entity", snap.EntitiesCreated)
	writeLabeled(w, "culinarynotes_entities_updated_total", "entity", snap.EntitiesUpdated)
	writeLabeled(w, "culinarynotes_entities_deleted_total", "entity", snap.EntitiesDeleted)

	dups := slices.SortedFunc(maps.Keys(snap.DuplicatesRejected), func(a, b metrics.DuplicateLabel) int {
		return cmp.Or(cmp.Compare(a.Entity, b.Entity), cmp.Compare(a.Key, b.Key))
	})
	for _, label := range dups {
		writeMetric(w, "culinarynotes_duplicate_keys_rejected_total{entity=%q,key=%q} %d\n",
			label.Entity, label.Key, snap.DuplicatesRejected[label])
	}

	for _, op := range slices.Sorted(maps.Keys(snap.OperationDurations)) {
		d := snap.OperationDurations[op]
		writeMetric(w, "culinarynotes_operation_duration_seconds_count{operation=%q} %d\n", op, d.Count)
		writeMetric(w, "culinarynotes_operation_duration_seconds_sum{operation=%q} %.6f\n", op, float64(d.TotalNs)/1e9)
	}

	writeMetric(w, "culinarynotes_files_stored_total %d\n", snap.FilesStored)
	writeMetric(w, "culinarynotes_files_deleted_total{result=\"removed\"} %d\n", snap.FilesDeleted)
	writeMetric(w, "culinarynotes_files_deleted_total{result=\"missing\"} %d\n", snap.FileDeletesMissed)
	writeLabeled(w, "culinarynotes_storage_failures_total", "op", snap.StorageFailures)
}

func writeLabeled(w io.Writer, name, label string, values map[string]uint64) {
	for _, key := range slices.Sorted(maps.Keys(values)) {
		writeMetric(w, "%s{%s=%q} %d\n", name, label, key, values[key])
	}
}

func writeMetric(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
