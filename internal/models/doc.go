// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

// Package models defines the canonical record types persisted by the store.
//
// Every entity that flows through the upsert protocol (internal/store) has
// a current-table Go struct here plus, where the entity carries history, a
// parallel "*Historical" struct with the same fields plus an origin foreign
// key and a DeletedAt timestamp. Fields are the union of everything the
// fetcher/parser pair can observe for that entity; unknown keys encountered
// during parsing are simply never assigned to a field and are dropped by
// the store's column-filtering safeCreate/safeUpdate.
package models
