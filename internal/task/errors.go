// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package task

import "errors"

// ErrSessionInvalid is surfaced to the Worker when a task aborted because
// its Account's session cookie was rejected by the site (§4.5 "Catch
// SessionInvalid/too-many-redirects uniformly and flag the account"). The
// Worker treats this the same as any other Error event; the Scheduler
// does not retry automatically (§4.6 "SessionInvalid marks the account
// invalid and terminates the task").
var ErrSessionInvalid = errors.New("task: account session invalid")
