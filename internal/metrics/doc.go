// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

/*
Package metrics provides Prometheus instrumentation for the backup engine
(SPEC_FULL.md ambient stack), trimmed from the teacher's much larger
media-analytics metrics surface down to the handful of series this
program's components actually produce.

# Overview

The package exposes metrics for:
  - HTTP API request latency and throughput (task submission, worker status)
  - Worker fleet state: heartbeats, current task, ready/done/error outcomes
  - Fetcher behavior: request duration, retry counts
  - Task outcomes: completions, errors, session invalidations
  - Scheduler task-queue depth

# Metrics Endpoint

Metrics are exposed at /metrics in Prometheus text format.

# Usage

	metrics.TrackActiveRequest(true)
	defer metrics.TrackActiveRequest(false)

	metrics.RecordAPIRequest(r.Method, r.URL.Path, "200", duration)

	metrics.RecordFetch(duration, "ok")

	metrics.RecordTaskOutcome(taskName, "done")

	metrics.SetQueueDepth(scheduler.QueueLen())

	metrics.RecordHeartbeat(workerName)

# See Also

  - internal/middleware: HTTP middleware recording API metrics
  - internal/fetcher: per-request latency/retry metrics
  - internal/scheduler: queue depth and worker lifecycle metrics
*/
package metrics
