package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// JobsTotal counts finished jobs by terminal status.
	JobsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campaign",
		Subsystem: "studio",
		Name:      "jobs_total",
		Help:      "Total number of generation jobs reaching a terminal state, labeled by status.",
	}, []string{"status"})

	// FallbacksTotal counts component-level degradations to deterministic fallbacks.
	FallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campaign",
		Subsystem: "studio",
		Name:      "fallbacks_total",
		Help:      "Total number of provider fallbacks, labeled by component (text, image, score, retrieve).",
	}, []string{"component"})

	// ChannelsTotal counts generated channel results by channel identifier.
	ChannelsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campaign",
		Subsystem: "studio",
		Name:      "channels_total",
		Help:      "Total number of per-channel results produced.",
	}, []string{"channel"})

	// PipelineDurationSeconds is end-to-end time per job.
	PipelineDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "campaign",
		Subsystem: "studio",
		Name:      "pipeline_duration_seconds",
		Help:      "End-to-end time to run the generation pipeline for one job.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 60, 120},
	})
)

// Register registers studio metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			JobsTotal,
			FallbacksTotal,
			ChannelsTotal,
			PipelineDurationSeconds,
		)
	})
}
