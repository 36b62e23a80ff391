// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

// Package task implements the backup jobs the Scheduler dispatches to
// Workers (§4.5, §4.6): one Fetcher-and-store-backed unit of work per
// Account, covering the account's social graph, collections, broadcasts,
// comments, notes, photo albums and likes.
package task
