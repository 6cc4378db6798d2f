// Copyright 2026 The ContentStore Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package contentstore

import (
	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors instrumenting a Store's
// operations. Grounded on the wal package's metrics (wal/wal_metrics_test.go
// constructs its histograms the same way: per-concern prometheus.Histogram
// fields on a plain struct, rather than a single vector with labels).
//
// A fresh Metrics is never registered against any registry automatically;
// call MustRegister to attach it to one (a global registry, or a per-test
// registry), mirroring how pebble's event listener wires metrics only when
// the caller opts in.
type Metrics struct {
	EntriesStored  prometheus.Counter
	EntriesDeleted prometheus.Counter
	BytesWritten   prometheus.Counter
	BlocksWritten  prometheus.Counter
	TOCRemaps      prometheus.Counter
	FileRollovers  prometheus.Counter

	StoreLatency    prometheus.Histogram
	RetrieveLatency prometheus.Histogram
}

// NewMetrics constructs a fresh, unregistered Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		EntriesStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contentstore_entries_stored_total",
			Help: "Number of entries successfully committed by Store.",
		}),
		EntriesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contentstore_entries_deleted_total",
			Help: "Number of entries marked deleted.",
		}),
		BytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contentstore_bytes_written_total",
			Help: "Number of encoded block bytes appended to data files.",
		}),
		BlocksWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contentstore_blocks_written_total",
			Help: "Number of encoded blocks appended to data files.",
		}),
		TOCRemaps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contentstore_toc_remaps_total",
			Help: "Number of times the TOC's write mapping had to grow mid-write.",
		}),
		FileRollovers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contentstore_file_rollovers_total",
			Help: "Number of times a data file exceeded its size hint and rolled over.",
		}),
		StoreLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "contentstore_store_latency_seconds",
			Help:    "Latency of Store calls.",
			Buckets: prometheus.DefBuckets,
		}),
		RetrieveLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "contentstore_retrieve_latency_seconds",
			Help:    "Latency of RetrieveParts calls.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// MustRegister registers every collector in m against reg. It panics on a
// duplicate registration, matching prometheus.Registry.MustRegister.
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		m.EntriesStored,
		m.EntriesDeleted,
		m.BytesWritten,
		m.BlocksWritten,
		m.TOCRemaps,
		m.FileRollovers,
		m.StoreLatency,
		m.RetrieveLatency,
	)
}

// LatencySampler accumulates per-call latency samples for a single CLI
// invocation and reports percentiles. Prometheus histograms are built for
// long-lived processes scraped over time; a one-shot `contentstore stat`
// invocation has no scraper, so it instead uses an HDR histogram the way
// pebble's introspection tool (tool/manifest.go) does for the same reason.
type LatencySampler struct {
	hist *hdrhistogram.Histogram
}

// NewLatencySampler returns a sampler covering 1 microsecond to 10 seconds
// (in nanoseconds) at 3 significant figures, matching the precision pebble's
// tool package uses for its own latency reporting.
func NewLatencySampler() *LatencySampler {
	return &LatencySampler{hist: hdrhistogram.New(1e3, 10e9, 3)}
}

// Record records a latency sample in nanoseconds.
func (s *LatencySampler) Record(nanos int64) {
	_ = s.hist.RecordValue(nanos)
}

// Percentile returns the given percentile (0-100) in nanoseconds.
func (s *LatencySampler) Percentile(p float64) int64 {
	return s.hist.ValueAtPercentile(p)
}
