// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package fetcher

import "errors"

// ErrSessionInvalid is returned when a request was redirected to the
// site's login wall, or chased more than 10 redirects without landing
// anywhere (§4.2 "Forbidden detection", §7 error kind 3). Callers
// (internal/task) mark the owning Account invalid and abort the task.
var ErrSessionInvalid = errors.New("fetcher: session invalid (login-wall redirect)")

// ErrExhausted is returned when a transient transport error survives every
// retry attempt. Callers treat it as a skippable miss (§7 error kind 1),
// not a task-ending failure.
var ErrExhausted = errors.New("fetcher: retries exhausted")
