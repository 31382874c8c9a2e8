package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	transferFiles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "streamline",
			Subsystem: "transfer",
			Name:      "files_total",
			Help:      "Files moved through the pipeline.",
		},
		[]string{"direction", "outcome"},
	)
	transferBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "streamline",
			Subsystem: "transfer",
			Name:      "bytes_total",
			Help:      "Body bytes moved through the pipeline.",
		},
		[]string{"direction"},
	)
	sessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "streamline",
			Subsystem: "transfer",
			Name:      "sessions_total",
			Help:      "Transfer sessions by terminal state.",
		},
		[]string{"direction", "outcome"},
	)
	sessionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "streamline",
			Subsystem: "transfer",
			Name:      "session_duration_seconds",
			Help:      "Transfer session duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"direction", "outcome"},
	)
)

const (
	DirectionSend    = "send"
	DirectionReceive = "receive"

	OutcomeOK      = "ok"
	OutcomeDone    = "done"
	OutcomeAborted = "aborted"
	OutcomeSkipped = "skipped"
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(transferFiles, transferBytes, sessions, sessionDuration)
	})
}

func RecordFile(direction, outcome string, bytes uint64) {
	RegisterMetrics()
	transferFiles.WithLabelValues(direction, outcome).Inc()
	if bytes > 0 {
		transferBytes.WithLabelValues(direction).Add(float64(bytes))
	}
}

func RecordSession(direction, outcome string, duration time.Duration) {
	RegisterMetrics()
	sessions.WithLabelValues(direction, outcome).Inc()
	sessionDuration.WithLabelValues(direction, outcome).Observe(duration.Seconds())
}
