// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package task

import "context"

// Task is one backup job a Worker runs to completion (§4.5). Equals
// defines the Scheduler's dedup key (§4.8 addTask): two tasks are equal
// iff they share a concrete type and target the same account. Owner lets
// a Worker — which is bound to a proxy, not an account (§4.8 "one primary
// worker plus one per proxy") — look up the Account a given task needs
// before building its task.Context.
type Task interface {
	Name() string
	Equals(other Task) bool
	Owner() int64
	Run(ctx context.Context, tc *Context) error
}

// sameAccountID reports whether two tasks should be considered duplicates
// because they carry the same account id; concrete task types embed this
// via their own AccountID field rather than a shared base struct, keeping
// each task's zero value meaningful on its own.
func sameAccountID(a, b int64) bool {
	return a == b
}
