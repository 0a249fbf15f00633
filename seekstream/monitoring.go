// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package seekstream

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	streamUsedGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "seekstream_used_bytes",
		Help: "Number of bytes retained by a stream.",
	},
		[]string{"stream"})

	streamFreeGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "seekstream_free_bytes",
		Help: "Number of bytes available for writing to a stream.",
	},
		[]string{"stream"})

	streamStaleGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "seekstream_stale_bytes",
		Help: "Number of retained bytes that have already been read.",
	},
		[]string{"stream"})

	streamFreshGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "seekstream_fresh_bytes",
		Help: "Number of retained bytes that have not been read.",
	},
		[]string{"stream"})

	streamWrittenBytes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seekstream_written_bytes",
		Help: "Count of bytes written to a stream.",
	},
		[]string{"stream"})

	streamReadBytes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seekstream_read_bytes",
		Help: "Count of bytes consumed from a stream, by reading or dropping.",
	},
		[]string{"stream"})

	streamDumpedBytes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seekstream_dumped_bytes",
		Help: "Count of bytes evicted from a stream.",
	},
		[]string{"stream"})

	streamErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seekstream_errors",
		Help: "Count of failed stream operations.",
	},
		[]string{"stream", "kind"})
)

// RegisterMonitoring registers all of this package's monitoring metrics.
func RegisterMonitoring(reg prometheus.Registerer) {
	reg.MustRegister(
		streamUsedGauge,
		streamFreeGauge,
		streamStaleGauge,
		streamFreshGauge,
		streamWrittenBytes,
		streamReadBytes,
		streamDumpedBytes,
		streamErrors,
	)
}

// monitor updates the metrics of a single named stream. A nil monitor does
// nothing.
type monitor struct {
	name string

	used, free, stale, fresh prometheus.Gauge
	writtenBytes, readBytes  prometheus.Counter
	dumpedBytes              prometheus.Counter
}

func newMonitor(name string) *monitor {
	if name == "" {
		return nil
	}
	return &monitor{
		name:         name,
		used:         streamUsedGauge.WithLabelValues(name),
		free:         streamFreeGauge.WithLabelValues(name),
		stale:        streamStaleGauge.WithLabelValues(name),
		fresh:        streamFreshGauge.WithLabelValues(name),
		writtenBytes: streamWrittenBytes.WithLabelValues(name),
		readBytes:    streamReadBytes.WithLabelValues(name),
		dumpedBytes:  streamDumpedBytes.WithLabelValues(name),
	}
}

func (m *monitor) update(st Status) {
	if m == nil {
		return
	}
	m.used.Set(float64(st.Used))
	m.free.Set(float64(st.Free))
	m.stale.Set(float64(st.Stale))
	m.fresh.Set(float64(st.Fresh))
}

func (m *monitor) written(n int) {
	if m != nil {
		m.writtenBytes.Add(float64(n))
	}
}

func (m *monitor) read(n int) {
	if m != nil {
		m.readBytes.Add(float64(n))
	}
}

func (m *monitor) dumped(n int) {
	if m != nil {
		m.dumpedBytes.Add(float64(n))
	}
}

func (m *monitor) failed(err error) {
	if m != nil {
		streamErrors.WithLabelValues(m.name, errorKind(err)).Inc()
	}
}
