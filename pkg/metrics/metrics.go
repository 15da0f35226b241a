// Package metrics provides Prometheus instrumentation for nebula-atom.
//
// # Overview
//
// Metrics are package-level collectors registered with the default Prometheus
// registry on import:
//   - AtomsEncoded / AtomsDecoded: atoms passing through a codec
//   - CodecErrors: encode/decode failures per codec
//   - DumpBytes: bytes written to or read from dump files
//   - TypesInterned / RegistryLookups: atom type registry activity
//   - CodecLatency: time spent encoding or decoding a whole dump
//
// # Basic Usage
//
//	metrics.AtomsEncoded.WithLabelValues("avro").Add(float64(n))
//
//	timer := metrics.NewTimer()
//	writeDump(atoms)
//	metrics.CodecLatency.WithLabelValues("avro", "encode").Observe(timer.Seconds())
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "nebula"
	subsystem = "atom"
)

var (
	// AtomsEncoded counts atoms written by a codec.
	// Labels: codec (json, avro, arrow)
	AtomsEncoded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "encoded_total",
			Help:      "Total number of atoms encoded",
		},
		[]string{"codec"},
	)

	// AtomsDecoded counts atoms read by a codec.
	// Labels: codec (json, avro, arrow)
	AtomsDecoded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "decoded_total",
			Help:      "Total number of atoms decoded",
		},
		[]string{"codec"},
	)

	// CodecErrors counts codec failures.
	// Labels: codec, operation (encode/decode)
	CodecErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "codec_errors_total",
			Help:      "Total number of atom codec errors",
		},
		[]string{"codec", "operation"},
	)

	// DumpBytes counts raw bytes moved through dump files.
	// Labels: direction (write/read)
	DumpBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "dump_bytes_total",
			Help:      "Total bytes written to or read from atom dump files",
		},
		[]string{"direction"},
	)

	// TypesInterned counts atom types added to a registry
	TypesInterned = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "types_interned_total",
			Help:      "Total number of atom types interned",
		},
	)

	// RegistryLookups counts registry lookups by outcome.
	// Labels: result (hit/miss)
	RegistryLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "registry_lookups_total",
			Help:      "Total number of atom type registry lookups",
		},
		[]string{"result"},
	)

	// CodecLatency tracks how long a dump takes to encode or decode, in seconds.
	// Labels: codec, operation (encode/decode)
	CodecLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "codec_latency_seconds",
			Help:      "Dump encode/decode latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"codec", "operation"},
	)
)

// Timer measures elapsed wall time
type Timer struct {
	start time.Time
}

// NewTimer starts a timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the time since the timer started
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Seconds returns the elapsed time in seconds, the unit CodecLatency observes
func (t *Timer) Seconds() float64 {
	return t.Elapsed().Seconds()
}
