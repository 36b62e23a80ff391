// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package config

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Settings is the typed snapshot of the database-backed Setting KV store
// (§6) that the Scheduler reads once per StartWorkers call and injects
// into every Task invocation (§4.5, §5: "Settings are read by tasks per
// invocation (no live reload)").
type Settings struct {
	RequestsPerMinute       int           `validate:"gt=0,lte=6000"`
	LocalObjectDuration     time.Duration `validate:"gte=0"`
	BroadcastActiveDuration time.Duration `validate:"gte=0"`
	BroadcastIncremental    bool
	ImageLocalCache         bool
	Proxies                 []string `validate:"dive,url"`
}

// DefaultSettings returns the values seeded into the Setting table on
// first run (§6).
func DefaultSettings() Settings {
	return Settings{
		RequestsPerMinute:       60,
		LocalObjectDuration:     30 * 24 * time.Hour,
		BroadcastActiveDuration: 30 * 24 * time.Hour,
		BroadcastIncremental:    false,
		ImageLocalCache:         false,
		Proxies:                 nil,
	}
}

var settingsValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate rejects a Settings snapshot that would misconfigure the
// Fetcher (zero/negative rate) or the broadcast incremental heuristic.
func (s *Settings) Validate() error {
	return settingsValidator.Struct(s)
}

// WorkerCount is one primary worker plus one per configured proxy (§4.8,
// §5: "Parallelism equals the number of workers (one primary + one per
// proxy)").
func (s *Settings) WorkerCount() int {
	return 1 + len(s.Proxies)
}
