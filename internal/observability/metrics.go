package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	framesReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "popcop",
			Subsystem: "link",
			Name:      "frames_received_total",
			Help:      "Frames that validated on the receive path.",
		},
		[]string{"port"},
	)
	framesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "popcop",
			Subsystem: "link",
			Name:      "frames_sent_total",
			Help:      "Frames emitted on the transmit path.",
		},
		[]string{"port"},
	)
	extraneousChunks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "popcop",
			Subsystem: "link",
			Name:      "extraneous_chunks_total",
			Help:      "Byte runs that did not validate as a frame.",
		},
		[]string{"port"},
	)
	extraneousBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "popcop",
			Subsystem: "link",
			Name:      "extraneous_bytes_total",
			Help:      "Bytes discarded as extraneous.",
		},
		[]string{"port"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(framesReceived, framesSent, extraneousChunks, extraneousBytes)
	})
}

func RecordFrameReceived(port string) {
	RegisterMetrics()
	framesReceived.WithLabelValues(port).Inc()
}

func RecordFrameSent(port string) {
	RegisterMetrics()
	framesSent.WithLabelValues(port).Inc()
}

func RecordExtraneous(port string, size int) {
	RegisterMetrics()
	extraneousChunks.WithLabelValues(port).Inc()
	extraneousBytes.WithLabelValues(port).Add(float64(size))
}
