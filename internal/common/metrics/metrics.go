package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	IdeasReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ideas_returned_per_request",
			Help:    "Number of ideas returned by one generate request",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 6},
		},
	)

	MatchScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "idea_match_score",
			Help:    "Distribution of match scores of returned ideas",
			Buckets: prometheus.LinearBuckets(0.3, 0.1, 8),
		},
	)

	EmptyResults = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ideas_empty_results_total",
			Help: "Generate requests where no idea cleared the inclusion threshold",
		},
	)

	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideas_cache_requests_total",
			Help: "Result cache lookups by outcome",
		},
		[]string{"result"},
	)

	SavedIdeaToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saved_idea_toggles_total",
			Help: "Saved idea toggles by resulting state",
		},
		[]string{"action"},
	)

	SearchHits = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "idea_search_hits",
			Help:    "Total hits reported by catalog searches",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		},
	)

	ReportsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idea_reports_sent_total",
			Help: "Idea reports delivered by channel",
		},
		[]string{"channel"},
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "idea_catalog_size",
			Help: "Number of idea templates loaded",
		},
	)
)

const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// JobStarted marks a job active and returns a func that ends it.
func JobStarted(taskType string) func() {
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return func() { WorkerJobsActive.WithLabelValues(taskType).Dec() }
}

func JobCompleted(taskType string, start time.Time) {
	WorkerJobsCompleted.WithLabelValues(taskType).Inc()
	WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
}

func JobFailed(taskType, errorCode string, start time.Time) {
	WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
	WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
}
