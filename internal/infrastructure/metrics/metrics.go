// Package metrics exposes prometheus collectors for the chat API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsagents",
			Subsystem: "chat_api",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "newsagents",
			Subsystem: "chat_api",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	WorkflowExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsagents",
			Subsystem: "chat_api",
			Name:      "workflow_executions_total",
			Help:      "Total number of workflow executions",
		},
		[]string{"workflow", "outcome"},
	)

	WorkflowDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "newsagents",
			Subsystem: "chat_api",
			Name:      "workflow_duration_seconds",
			Help:      "Workflow execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"workflow"},
	)

	LLMCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "newsagents",
			Subsystem: "chat_api",
			Name:      "llm_call_duration_seconds",
			Help:      "Model call duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"operation"},
	)

	LLMRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "newsagents",
			Subsystem: "chat_api",
			Name:      "llm_retries_total",
			Help:      "Total number of retried model calls",
		},
	)

	TrackedJobs = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "newsagents",
			Subsystem: "chat_api",
			Name:      "tracked_jobs",
			Help:      "Number of job status entries by state",
		},
		[]string{"state"},
	)

	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "newsagents",
			Subsystem: "chat_api",
			Name:      "background_queue_depth",
			Help:      "Number of tasks waiting in the background queue",
		},
	)

	BackgroundTasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsagents",
			Subsystem: "chat_api",
			Name:      "background_tasks_total",
			Help:      "Total number of background tasks by outcome",
		},
		[]string{"outcome"},
	)

	FeedbackSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsagents",
			Subsystem: "chat_api",
			Name:      "feedback_submissions_total",
			Help:      "Total number of feedback submissions",
		},
		[]string{"type"},
	)

	ConversationTurnsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "newsagents",
			Subsystem: "chat_api",
			Name:      "conversation_turns_total",
			Help:      "Total number of turns appended to conversations",
		},
	)
)

// RecordHTTPRequest records one completed HTTP request.
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordWorkflowExecution records one workflow run.
func RecordWorkflowExecution(workflow, outcome string, duration time.Duration) {
	WorkflowExecutionsTotal.WithLabelValues(workflow, outcome).Inc()
	WorkflowDuration.WithLabelValues(workflow).Observe(duration.Seconds())
}

// RecordLLMCall records the duration of one model call.
func RecordLLMCall(operation string, duration time.Duration) {
	LLMCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordLLMRetry counts one retried model call.
func RecordLLMRetry() {
	LLMRetriesTotal.Inc()
}

// RecordFeedback counts one feedback submission.
func RecordFeedback(positive bool) {
	label := "negative"
	if positive {
		label = "positive"
	}
	FeedbackSubmissionsTotal.WithLabelValues(label).Inc()
}

// RecordTurnAppend counts one appended turn.
func RecordTurnAppend() {
	ConversationTurnsTotal.Inc()
}

// RecordBackgroundTask counts one drained background task.
func RecordBackgroundTask(outcome string) {
	BackgroundTasksTotal.WithLabelValues(outcome).Inc()
}
