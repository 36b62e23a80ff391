// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

// Package fetcher implements the per-worker HTTP client of §4.2: cookie
// session, UA/referer headers, rate pacing via golang.org/x/time/rate,
// bounded retry on transport errors, and detection of the site's
// login-wall redirect ("forbidden").
package fetcher
