package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "framescout_runs_total",
		Help: "Total number of extraction runs, by final status",
	}, []string{"status"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "framescout_stage_duration_seconds",
		Help:    "Duration of extraction pipeline stages",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"stage"})

	ScreenshotsExtractedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "framescout_screenshots_extracted_total",
		Help: "Total number of screenshots produced across all runs",
	})

	EncodeFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "framescout_encode_failures_total",
		Help: "Total number of per-frame encode refusals (frames skipped)",
	})

	ActiveExtractions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "framescout_active_extractions",
		Help: "Number of extraction runs currently in flight",
	})
)
