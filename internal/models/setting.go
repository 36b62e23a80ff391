// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package models

// Setting is a single row of the runtime-configuration KV store (§6).
type Setting struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

const SettingTable = "settings"

// Well-known setting keys, persisted as strings and parsed by
// internal/config into a typed Settings snapshot.
const (
	SettingRequestsPerMinute       = "worker.requests-per-minute"
	SettingLocalObjectDuration     = "worker.local-object-duration"
	SettingBroadcastActiveDuration = "worker.broadcast-active-duration"
	SettingBroadcastIncremental    = "worker.broadcast-incremental-backup"
	SettingImageLocalCache         = "worker.image-local-cache"

	// SettingProxies' value is a JSON list of proxy URLs (§6), not a
	// delimited string — a proxy URL can itself legally contain a comma
	// in its query string.
	SettingProxies = "worker.proxies"
)
