// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

// Package scheduler owns the worker fleet and the task deque (§4.8). It
// is the "parent process" of the source design: a cooperative event loop
// that drains worker events, forwards them to the WebSocket hub, and
// dispatches queued tasks onto idle workers.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/graveyard/internal/config"
	"github.com/tomtom215/graveyard/internal/store"
	"github.com/tomtom215/graveyard/internal/supervisor"
	"github.com/tomtom215/graveyard/internal/task"
	"github.com/tomtom215/graveyard/internal/websocket"
	"github.com/tomtom215/graveyard/internal/worker"
)

// primaryWorkerName is the fleet member with no proxy bound (§4.8 "one
// primary worker plus one per configured proxy").
const primaryWorkerName = "primary"

// Scheduler is the suture.Service that drains worker events and keeps the
// deque flowing into idle workers. It also exposes AddTask and
// StartWorkers/StopWorkers for the HTTP layer (api.go) to call.
type Scheduler struct {
	tree     *supervisor.SupervisorTree
	store    *store.Store
	hub      *websocket.Hub
	cacheDir string
	logger   zerolog.Logger

	events chan worker.Event

	mu      sync.Mutex
	workers map[string]*worker.Worker
	tokens  map[string]suture.ServiceToken
	idle    map[string]bool
	queue   deque
}

// New builds a Scheduler. It does not start any workers; call StartWorkers
// once the caller is ready to begin dispatching (typically right after
// construction, from cmd/graveyardd).
func New(tree *supervisor.SupervisorTree, st *store.Store, hub *websocket.Hub, cacheDir string, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		tree:     tree,
		store:    st,
		hub:      hub,
		cacheDir: cacheDir,
		logger:   logger.With().Str("component", "scheduler").Logger(),
		events:   make(chan worker.Event, 256),
		workers:  make(map[string]*worker.Worker),
		tokens:   make(map[string]suture.ServiceToken),
		idle:     make(map[string]bool),
	}
}

// Serve implements suture.Service: the §4.8 event loop. It drains worker
// events until ctx is canceled; StartWorkers/StopWorkers are driven
// independently from the HTTP layer, not from this loop.
func (s *Scheduler) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-s.events:
			s.handleEvent(ev)
		}
	}
}

func (s *Scheduler) handleEvent(ev worker.Event) {
	switch ev.Kind {
	case worker.KindReady:
		s.markIdle(ev.Worker)
		s.hub.BroadcastEvent(websocket.Event{Sender: "worker", Src: ev.Worker, Event: "ready"})
	case worker.KindWorking:
		s.hub.BroadcastEvent(websocket.Event{Sender: "worker", Src: ev.Worker, Event: "working", Target: ev.Task.Name()})
	case worker.KindDone:
		s.hub.BroadcastEvent(websocket.Event{Sender: "worker", Src: ev.Worker, Event: "done", Target: ev.Task.Name()})
		s.markIdle(ev.Worker)
	case worker.KindError:
		s.logger.Warn().Str("worker", ev.Worker).Str("task", ev.Task.Name()).Err(ev.Err).Msg("task failed")
		s.hub.BroadcastEvent(websocket.Event{Sender: "worker", Src: ev.Worker, Event: "error", Target: ev.Task.Name(), Message: ev.Err.Error()})
		s.markIdle(ev.Worker)
	case worker.KindLog:
		s.hub.BroadcastEvent(websocket.Event{Sender: "logger", Level: ev.LogLevel, Message: ev.LogMessage})
	case worker.KindHeartbeat:
		// Heartbeats drive metrics only (§5); they are not part of the §6
		// UI event vocabulary.
	}
}

// markIdle records that worker name has no task in flight and attempts to
// hand it the next queued task (§4.8 pushTask: "if any worker is
// suspended, pop one task from the deque and put it on that worker's
// input").
func (s *Scheduler) markIdle(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idle[name] = true
	s.dispatchLocked()
}

// dispatchLocked assigns queued tasks to every currently idle worker. Call
// with s.mu held.
func (s *Scheduler) dispatchLocked() {
	for name := range s.idle {
		if !s.idle[name] {
			continue
		}
		w, ok := s.workers[name]
		if !ok {
			continue
		}
		t, ok := s.queue.pop()
		if !ok {
			return
		}
		s.idle[name] = false
		w.In <- t
	}
}

// AddTask enqueues t, rejecting it if an equal task is already queued
// (§4.8 addTask). It reports whether t was added, and attempts to
// dispatch immediately in case a worker is already idle.
func (s *Scheduler) AddTask(t task.Task, priority bool) bool {
	added := s.queue.push(t, priority)
	if added {
		s.mu.Lock()
		s.dispatchLocked()
		s.mu.Unlock()
	}
	return added
}

// QueueDepth reports the number of tasks currently queued (not counting
// tasks already handed to a worker).
func (s *Scheduler) QueueDepth() int {
	return s.queue.len()
}

// WorkerStatus is one fleet member's status, reported by Status (§6
// worker-status endpoint).
type WorkerStatus struct {
	Name  string `json:"name"`
	State string `json:"state"`
	Task  string `json:"task,omitempty"`
}

// Status reports every fleet member's current state and in-flight task.
func (s *Scheduler) Status() []WorkerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]WorkerStatus, 0, len(s.workers))
	for name, w := range s.workers {
		st := WorkerStatus{Name: name, State: w.State().String()}
		if t, ok := w.CurrentTask(); ok {
			st.Task = t.Name()
		}
		out = append(out, st)
	}
	return out
}

// StartWorkers (re)builds the fleet from settings: one primary worker
// plus one per configured proxy, each getting the full settings snapshot
// (§4.8 startWorkers). It is a no-op on a fleet that is already running;
// call StopWorkers first to pick up changed settings.
func (s *Scheduler) StartWorkers(ctx context.Context, settings config.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.workers) > 0 {
		return fmt.Errorf("scheduler: fleet already running, call StopWorkers first")
	}

	names := make([]string, 0, settings.WorkerCount())
	proxies := make([]string, 0, settings.WorkerCount())
	names = append(names, primaryWorkerName)
	proxies = append(proxies, "")
	for i, p := range settings.Proxies {
		names = append(names, fmt.Sprintf("proxy-%d", i+1))
		proxies = append(proxies, p)
	}

	for i, name := range names {
		w := worker.New(name, s.store, settings, proxies[i], s.cacheDir, s.events, s.logger)
		if err := w.Start(); err != nil {
			return fmt.Errorf("scheduler: start worker %s: %w", name, err)
		}
		s.workers[name] = w
		s.tokens[name] = s.tree.AddWorkerService(w)
	}
	return nil
}

// StopWorkers terminates every running worker (§4.8 stopWorkers); any
// task currently in flight on a worker is requeued at the deque head so a
// subsequent StartWorkers re-attempts it.
func (s *Scheduler) StopWorkers(shutdownTimeout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, w := range s.workers {
		if t, ok := w.CurrentTask(); ok {
			s.queue.push(t, true)
		}
		if err := w.Stop(); err != nil {
			s.logger.Warn().Str("worker", name).Err(err).Msg("worker stop transition rejected")
		}
		if err := s.tree.RemoveAndWait(s.tokens[name], shutdownTimeout); err != nil {
			s.logger.Warn().Str("worker", name).Err(err).Msg("worker did not stop within timeout")
		}
		delete(s.idle, name)
	}
	s.workers = make(map[string]*worker.Worker)
	s.tokens = make(map[string]suture.ServiceToken)
	return nil
}
