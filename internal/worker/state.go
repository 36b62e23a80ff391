// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package worker

import "fmt"

// State is one of the three lifecycle states a Worker occupies (§4.7).
type State int

const (
	Pending State = iota
	Running
	Terminated
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// ErrIllegalTransition is returned by Start/Stop/Reset when called from a
// state the spec does not allow it from (§4.7 "illegal from other
// states").
type ErrIllegalTransition struct {
	From   State
	Method string
}

func (e *ErrIllegalTransition) Error() string {
	return fmt.Sprintf("worker: %s is illegal from state %s", e.Method, e.From)
}
