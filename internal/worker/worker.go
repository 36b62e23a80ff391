// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/graveyard/internal/config"
	"github.com/tomtom215/graveyard/internal/metrics"
	"github.com/tomtom215/graveyard/internal/store"
	"github.com/tomtom215/graveyard/internal/task"
)

// heartbeatInterval is both the idle-poll timeout on the input channel and
// the cadence of the resulting Heartbeat event (§4.7 "once per 1 s of
// idle").
const heartbeatInterval = 1 * time.Second

// Worker is one fleet member (§4.7): it owns a single HTTP session and
// database handle, consumes at most one task.Task at a time from In, and
// reports lifecycle transitions on the shared out channel given to New.
// Worker implements suture.Service via Serve, so the Scheduler adds it
// directly to its supervisor.SupervisorTree worker layer.
//
// A Worker is bound to a proxy, not an account (§4.8 "one primary worker
// plus one per configured proxy"): each dispatched task names its own
// target account via task.Task.Owner, and runOne resolves that account
// fresh from the store before building the task's Context.
type Worker struct {
	name     string
	store    *store.Store
	settings config.Settings
	proxyURL string
	cacheDir string
	logger   zerolog.Logger

	// In is the task queue the Scheduler dispatches onto; buffered to one
	// so pushTask never blocks on a worker that is mid-heartbeat-poll.
	In chan task.Task

	out chan<- Event

	mu      sync.Mutex
	state   State
	current task.Task
}

// New builds a Worker bound to proxyURL (empty for the primary worker —
// §4.8 "one primary worker plus one per proxy"). out is shared by every
// worker in the fleet; the Scheduler's event loop reads from it to
// dispatch and to forward progress events (§4.7, §4.8).
func New(name string, st *store.Store, settings config.Settings, proxyURL, cacheDir string, out chan<- Event, logger zerolog.Logger) *Worker {
	w := &Worker{
		name:     name,
		store:    st,
		settings: settings,
		proxyURL: proxyURL,
		cacheDir: cacheDir,
		out:      out,
		In:       make(chan task.Task, 1),
		state:    Pending,
	}
	w.logger = logger.With().Str("worker", name).Logger().Hook(w)
	return w
}

// Name identifies the worker in events, metrics, and UI status (§4.7).
func (w *Worker) Name() string { return w.name }

// State reports the worker's current lifecycle state.
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// CurrentTask reports the task in flight, if any — the Scheduler reads
// this when StopWorkers requeues in-progress work (§4.8 "the current task
// on a terminated worker is returned to the head of the deque").
func (w *Worker) CurrentTask() (task.Task, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current, w.current != nil
}

// Start transitions Pending -> Running (§4.7 "illegal from other
// states"). The Scheduler calls this immediately before adding the
// worker to the supervisor tree.
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != Pending {
		return &ErrIllegalTransition{From: w.state, Method: "Start"}
	}
	w.state = Running
	metrics.SetWorkerState(w.name, int(Running))
	return nil
}

// Stop transitions Running -> Terminated. The Scheduler calls this when
// removing the worker from the supervisor tree (§4.8 StopWorkers).
func (w *Worker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != Running {
		return &ErrIllegalTransition{From: w.state, Method: "Stop"}
	}
	w.state = Terminated
	metrics.SetWorkerState(w.name, int(Terminated))
	return nil
}

// Reset transitions Terminated -> Pending, readying the worker to be
// Start()-ed again by a subsequent StartWorkers call (§4.7).
func (w *Worker) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != Terminated {
		return &ErrIllegalTransition{From: w.state, Method: "Reset"}
	}
	w.state = Pending
	metrics.SetWorkerState(w.name, int(Pending))
	return nil
}

// Serve implements suture.Service: the worker's consume loop. It emits
// Ready once, then alternates between waiting up to heartbeatInterval for
// a task and running whatever it receives, exactly the §9 "explicit state
// machine... driven by select over input/cancel/heartbeat-timer"
// replacement for the source's generator-based loop.
//
// A single worker never runs two tasks concurrently: Run blocks the
// select loop until it returns (§4.7 "A single worker never runs two
// tasks in parallel").
func (w *Worker) Serve(ctx context.Context) error {
	w.emit(Event{Kind: KindReady, Worker: w.name})

	var seq uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		case t, ok := <-w.In:
			if !ok {
				return nil
			}
			w.runOne(ctx, t)
		case <-time.After(heartbeatInterval):
			seq++
			metrics.RecordHeartbeat(w.name)
			w.emit(Event{Kind: KindHeartbeat, Worker: w.name, Seq: seq})
		}
	}
}

// runOne resolves t's target account, runs t to completion against a
// fresh task.Context, and emits the terminal Done/Error event (§4.6
// "Failure semantics for tasks"). An account that can no longer be
// resolved (deleted between enqueue and dispatch) is reported as a task
// error rather than crashing the worker.
func (w *Worker) runOne(ctx context.Context, t task.Task) {
	w.mu.Lock()
	w.current = t
	w.mu.Unlock()

	w.emit(Event{Kind: KindWorking, Worker: w.name, Task: t})

	start := time.Now()
	account, err := w.store.GetAccount(ctx, t.Owner())
	if err == nil {
		var tc *task.Context
		tc, err = task.NewContext(account, w.store, w.settings, w.proxyURL, w.cacheDir, w.logger)
		if err == nil {
			err = t.Run(ctx, tc)
		}
	}
	outcome := "done"
	if err != nil {
		outcome = "error"
	}
	metrics.RecordTaskOutcome(t.Name(), outcome, time.Since(start))

	w.mu.Lock()
	w.current = nil
	w.mu.Unlock()

	if err != nil {
		w.emit(Event{Kind: KindError, Worker: w.name, Task: t, Err: err})
		return
	}
	w.emit(Event{Kind: KindDone, Worker: w.name, Task: t})
}

// emit sends to out without blocking the worker loop forever if the
// Scheduler's event drain is momentarily behind; the out channel is
// sized generously by the Scheduler, so this should only ever take the
// fast path.
func (w *Worker) emit(ev Event) {
	w.out <- ev
}

// Run implements zerolog.Hook so every log line the worker's task runtime
// emits is also forwarded to the Scheduler as a KindLog event (§4.7
// "Forwarded LogRecord objects").
func (w *Worker) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if level == zerolog.NoLevel {
		return
	}
	select {
	case w.out <- Event{Kind: KindLog, Worker: w.name, LogLevel: level.String(), LogMessage: msg}:
	default:
	}
}
