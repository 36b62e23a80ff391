// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/graveyard/internal/task"
)

// fakeTask is a minimal task.Task used to exercise the deque and the
// scheduler without pulling in a concrete task's Fetcher/Store
// dependencies. done, if set, is closed when Run executes. started and
// release let a test hold Run open to observe "in flight" state: if
// started is set it is closed as soon as Run begins, and if release is
// set Run blocks on it before returning.
type fakeTask struct {
	name      string
	accountID int64
	done      chan struct{}
	started   chan struct{}
	release   chan struct{}
}

func (t fakeTask) Name() string { return t.name }
func (t fakeTask) Owner() int64 { return t.accountID }
func (t fakeTask) Run(context.Context, *task.Context) error {
	if t.started != nil {
		close(t.started)
	}
	if t.release != nil {
		<-t.release
	}
	if t.done != nil {
		close(t.done)
	}
	return nil
}

func (t fakeTask) Equals(other task.Task) bool {
	o, ok := other.(fakeTask)
	return ok && t.name == o.name && t.accountID == o.accountID
}

func TestDeque_FIFOOrder(t *testing.T) {
	var d deque
	require.True(t, d.push(fakeTask{name: "a", accountID: 1}, false))
	require.True(t, d.push(fakeTask{name: "b", accountID: 1}, false))

	first, ok := d.pop()
	require.True(t, ok)
	assert.Equal(t, "a", first.Name())

	second, ok := d.pop()
	require.True(t, ok)
	assert.Equal(t, "b", second.Name())

	_, ok = d.pop()
	assert.False(t, ok)
}

func TestDeque_PriorityGoesToHead(t *testing.T) {
	var d deque
	require.True(t, d.push(fakeTask{name: "a", accountID: 1}, false))
	require.True(t, d.push(fakeTask{name: "b", accountID: 1}, true))

	first, ok := d.pop()
	require.True(t, ok)
	assert.Equal(t, "b", first.Name(), "priority task should be popped before the earlier FIFO task")
}

func TestDeque_DedupRejectsEqualTask(t *testing.T) {
	var d deque
	require.True(t, d.push(fakeTask{name: "a", accountID: 1}, false))
	require.False(t, d.push(fakeTask{name: "a", accountID: 1}, false), "an equal task must not be queued twice")
	assert.Equal(t, 1, d.len())

	require.True(t, d.push(fakeTask{name: "a", accountID: 2}, false), "same task name for a different account is not a duplicate")
	assert.Equal(t, 2, d.len())
}
