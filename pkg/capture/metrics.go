package capture

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/OpenTraceLab/OpenTraceDWF/pkg/dwf"
)

// StreamMetrics counts what a record-mode stream delivered and dropped.
type StreamMetrics struct {
	Samples   prometheus.Counter
	Lost      prometheus.Counter
	Corrupted prometheus.Counter
	Chunks    prometheus.Counter
}

// NewStreamMetrics creates the stream counters and registers them with reg.
func NewStreamMetrics(reg prometheus.Registerer) *StreamMetrics {
	m := &StreamMetrics{
		Samples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dwf",
			Subsystem: "stream",
			Name:      "samples_total",
			Help:      "Samples received per channel.",
		}),
		Lost: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dwf",
			Subsystem: "stream",
			Name:      "lost_total",
			Help:      "Samples overwritten by the device before they were read.",
		}),
		Corrupted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dwf",
			Subsystem: "stream",
			Name:      "corrupted_total",
			Help:      "Samples that may have been overwritten while being read.",
		}),
		Chunks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dwf",
			Subsystem: "stream",
			Name:      "chunks_total",
			Help:      "Chunks delivered by the stream.",
		}),
	}
	reg.MustRegister(m.Samples, m.Lost, m.Corrupted, m.Chunks)
	return m
}

// Observe records one chunk.
func (m *StreamMetrics) Observe(c dwf.Chunk) {
	n := 0
	if len(c.Channels) > 0 {
		n = len(c.Channels[0].Samples)
	}
	m.Samples.Add(float64(n))
	m.Lost.Add(float64(c.Lost))
	m.Corrupted.Add(float64(c.Corrupted))
	m.Chunks.Inc()
}

// AppendChunk adds the samples of c to capture, which must have been
// started with the same channel set.
func AppendChunk(capture *dwf.Capture, c dwf.Chunk) {
	if capture.Rate == 0 {
		capture.Rate = c.Rate
	}
	if len(capture.Channels) == 0 {
		for _, ch := range c.Channels {
			capture.Channels = append(capture.Channels, dwf.ChannelData{Index: ch.Index})
		}
	}
	for i, ch := range c.Channels {
		if i < len(capture.Channels) {
			capture.Channels[i].Samples = append(capture.Channels[i].Samples, ch.Samples...)
		}
	}
}
