package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// webhookEvents counts webhook deliveries by event type and outcome
	// (processed, ignored, invalid, unauthorized, failed).
	webhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vigil",
		Subsystem: "webhook",
		Name:      "events_total",
		Help:      "Webhook deliveries received by event type and outcome",
	}, []string{"event", "outcome"})

	// reviewRuns counts completed pipeline runs by outcome (success, error).
	reviewRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vigil",
		Subsystem: "review",
		Name:      "runs_total",
		Help:      "Pull request reviews run by outcome",
	}, []string{"outcome"})

	// reviewDuration measures one full fetch-analyze-post cycle.
	reviewDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "vigil",
		Subsystem: "review",
		Name:      "duration_seconds",
		Help:      "Time to fetch, analyze and report one pull request",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	// reviewIssues counts issues found, by category.
	reviewIssues = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vigil",
		Subsystem: "review",
		Name:      "issues_total",
		Help:      "Issues found by category",
	}, []string{"category"})

	// threadsPosted counts comment threads created on pull requests.
	threadsPosted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vigil",
		Subsystem: "review",
		Name:      "threads_posted_total",
		Help:      "Comment threads created on pull requests",
	})
)

// RecordWebhookEvent records one webhook delivery.
func RecordWebhookEvent(event, outcome string) {
	webhookEvents.WithLabelValues(event, outcome).Inc()
}

// RecordReview records a completed pipeline run and its duration.
func RecordReview(outcome string, durationSec float64) {
	reviewRuns.WithLabelValues(outcome).Inc()
	reviewDuration.Observe(durationSec)
}

// RecordIssues records per-category issue counts from one review.
func RecordIssues(security, performance, quality int) {
	reviewIssues.WithLabelValues("security").Add(float64(security))
	reviewIssues.WithLabelValues("performance").Add(float64(performance))
	reviewIssues.WithLabelValues("quality").Add(float64(quality))
}

// RecordThreadPosted records one successfully created comment thread.
func RecordThreadPosted() {
	threadsPosted.Inc()
}
