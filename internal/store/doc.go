// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

// Package store is the embedded relational backend (§3, §4.1, §4.4): a
// single SQLite file holding a current table and, for every versioned
// entity, a parallel historical table.
//
// Every entity reachable through the upsert protocol is described once as
// an entitySpec (table name, historical table name, unique key, compared
// attributes) and driven through the single generic Upsert function rather
// than per-entity SQL, since §4.4 describes one algorithm applied
// uniformly across entities, not entity-specific logic. Reflection over
// each model's `db` struct tags builds the column list; see record.go.
//
// Set-valued relations (following/follower/block, favorites, interests)
// additionally go through Reconcile (§3 "snapshot reconciliation"): every
// observed element is upserted, and anything present before the
// reconciliation transaction but absent from the fresh snapshot is cloned
// into its historical table with deleted_at set, then deleted — all inside
// one transaction.
package store
