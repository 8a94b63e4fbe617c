// Purpose: Owns the capture pipeline's Prometheus instrumentation.
// metrics.go — counters and histograms the capture engine and recorder
// update on the hot path. The embedding application mounts these on its own
// /metrics handler; this package never starts an HTTP server itself
// (spec §1 non-goals keep transport concerns out of the core). The
// cmd/netcapture binary is one such embedding application.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles every counter/histogram this module emits.
type Metrics struct {
	EventsEmitted    *prometheus.CounterVec
	DecodeFailures   *prometheus.CounterVec
	BytesCaptured    prometheus.Counter
	ArchiveWrites    prometheus.Counter
	PersistFailures  prometheus.Counter
	ArchiveWriteTime prometheus.Histogram
}

// New constructs a Metrics bundle and registers it with reg. Passing a
// prometheus.NewRegistry() keeps tests isolated from the global default
// registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "netcapture_events_emitted_total",
			Help: "Events emitted by the capture engine, by channel.",
		}, []string{"channel"}),
		DecodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "netcapture_decode_failures_total",
			Help: "Response body content-decode failures, by encoding.",
		}, []string{"encoding"}),
		BytesCaptured: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netcapture_bytes_captured_total",
			Help: "Post-decode response bytes observed by the capture engine.",
		}),
		ArchiveWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netcapture_recorder_archive_writes_total",
			Help: "HAR entries appended to the session archive.",
		}),
		PersistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "netcapture_recorder_persist_failures_total",
			Help: "Body or archive persistence failures.",
		}),
		ArchiveWriteTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "netcapture_recorder_archive_write_seconds",
			Help:    "Latency of HAR archive finalization on stop.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.EventsEmitted, m.DecodeFailures, m.BytesCaptured, m.ArchiveWrites, m.PersistFailures, m.ArchiveWriteTime)
	}
	return m
}

// Noop returns a Metrics bundle backed by an unregistered registry, for
// callers (and tests) that don't want to wire up Prometheus.
func Noop() *Metrics {
	return New(nil)
}
