// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package worker

import "github.com/tomtom215/graveyard/internal/task"

// Kind discriminates the events a Worker emits on its Out channel (§4.7).
type Kind int

const (
	// KindReady fires once after the worker's goroutine starts.
	KindReady Kind = iota
	// KindWorking fires when a task is dispatched to the worker.
	KindWorking
	// KindDone fires when a task's Run returns nil.
	KindDone
	// KindError fires when a task's Run returns a non-nil error.
	KindError
	// KindHeartbeat fires once per second of idle (no task in flight).
	KindHeartbeat
	// KindLog carries a forwarded log line from the worker's logger.
	KindLog
)

func (k Kind) String() string {
	switch k {
	case KindReady:
		return "ready"
	case KindWorking:
		return "working"
	case KindDone:
		return "done"
	case KindError:
		return "error"
	case KindHeartbeat:
		return "heartbeat"
	case KindLog:
		return "log"
	default:
		return "unknown"
	}
}

// Event is one lifecycle notification a Worker emits (§4.7). Only the
// fields relevant to Kind are populated; the Scheduler's event loop
// switches on Kind before reading the rest.
type Event struct {
	Kind   Kind
	Worker string

	// Task is set on Working/Done/Error.
	Task task.Task

	// Err is set on Error.
	Err error

	// Seq is the heartbeat counter, set on Heartbeat.
	Seq uint64

	// LogLevel/LogMessage carry a forwarded zerolog record, set on Log.
	LogLevel   string
	LogMessage string
}
