// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package scheduler

import (
	"sync"

	"github.com/tomtom215/graveyard/internal/metrics"
	"github.com/tomtom215/graveyard/internal/task"
)

// deque is the Scheduler's FIFO task queue with priority-insert and
// dedup-by-Equals support (§4.8 addTask/pushTask).
type deque struct {
	mu    sync.Mutex
	tasks []task.Task
}

// push appends t to the tail, or to the head when priority is set,
// unless an Equals duplicate is already queued (§4.8 "reject if
// t.equals(existing) for some queued task"). It reports whether t was
// added.
func (d *deque) push(t task.Task, priority bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.tasks {
		if t.Equals(existing) {
			return false
		}
	}

	if priority {
		d.tasks = append([]task.Task{t}, d.tasks...)
	} else {
		d.tasks = append(d.tasks, t)
	}
	metrics.SetQueueDepth(len(d.tasks))
	return true
}

// pop removes and returns the head task, if any.
func (d *deque) pop() (task.Task, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.tasks) == 0 {
		return nil, false
	}
	t := d.tasks[0]
	d.tasks = d.tasks[1:]
	metrics.SetQueueDepth(len(d.tasks))
	return t, true
}

// len reports the current queue depth.
func (d *deque) len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.tasks)
}
