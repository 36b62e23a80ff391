// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the backup engine: API surface, fetcher behavior,
// worker fleet state, and task outcomes (SPEC_FULL.md ambient stack).
var (
	// APIRequestsTotal counts every request served by the Scheduler's HTTP
	// surface (task submission, worker status, websocket upgrade).
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graveyard_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graveyard_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "graveyard_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// FetchDuration times one Fetcher.Get call, including any pacing
	// sleep, labeled by its final outcome (§4.2).
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graveyard_fetch_duration_seconds",
			Help:    "Duration of one Fetcher.Get call, including rate-limit pacing",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"}, // ok, http_error, exhausted, forbidden
	)

	FetchRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graveyard_fetch_retries_total",
			Help: "Total number of Fetcher retry attempts after a transport error",
		},
		[]string{"outcome"},
	)

	FetchForbidden = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "graveyard_fetch_forbidden_total",
			Help: "Total number of login-wall redirects detected by the Fetcher (§4.2)",
		},
	)

	// WorkerHeartbeats counts the §4.7 idle Heartbeat event per worker.
	WorkerHeartbeats = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graveyard_worker_heartbeats_total",
			Help: "Total number of idle heartbeats emitted by a worker",
		},
		[]string{"worker"},
	)

	WorkerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "graveyard_worker_state",
			Help: "Current worker state (0=pending, 1=running, 2=terminated)",
		},
		[]string{"worker"},
	)

	// TaskOutcomes counts each terminal task result the Scheduler observes
	// on a worker's out channel (§4.7 Done/Error).
	TaskOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graveyard_task_outcomes_total",
			Help: "Total number of completed tasks by task name and outcome",
		},
		[]string{"task", "outcome"}, // outcome: done, error, session_invalid
	)

	TaskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graveyard_task_duration_seconds",
			Help:    "Duration of one task run from dispatch to terminal event",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"task"},
	)

	// QueueDepth is the Scheduler's pending task deque length (§4.8).
	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "graveyard_scheduler_queue_depth",
			Help: "Current number of tasks waiting in the scheduler's dispatch deque",
		},
	)

	// AttachmentsMaterialized counts successful attachment realizations
	// (§4.6 "Attachment realization").
	AttachmentsMaterialized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "graveyard_attachments_materialized_total",
			Help: "Total number of attachments written to the local cache directory",
		},
	)
)

// RecordAPIRequest records one HTTP request/response cycle.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordFetch records one Fetcher.Get call's duration and outcome.
func RecordFetch(duration time.Duration, outcome string) {
	FetchDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordFetchRetry records a single retry attempt after a transport error.
func RecordFetchRetry(outcome string) {
	FetchRetries.WithLabelValues(outcome).Inc()
}

// RecordForbidden records a detected login-wall redirect (§4.2).
func RecordForbidden() {
	FetchForbidden.Inc()
}

// RecordHeartbeat records one worker idle heartbeat (§4.7).
func RecordHeartbeat(worker string) {
	WorkerHeartbeats.WithLabelValues(worker).Inc()
}

// SetWorkerState publishes a worker's current lifecycle state as a gauge
// value: 0 pending, 1 running, 2 terminated.
func SetWorkerState(worker string, state int) {
	WorkerState.WithLabelValues(worker).Set(float64(state))
}

// RecordTaskOutcome records a task's terminal result.
func RecordTaskOutcome(task, outcome string, duration time.Duration) {
	TaskOutcomes.WithLabelValues(task, outcome).Inc()
	TaskDuration.WithLabelValues(task).Observe(duration.Seconds())
}

// SetQueueDepth publishes the scheduler's current pending-task count.
func SetQueueDepth(depth int) {
	QueueDepth.Set(float64(depth))
}

// RecordAttachmentMaterialized records a successfully cached attachment.
func RecordAttachmentMaterialized() {
	AttachmentsMaterialized.Inc()
}
