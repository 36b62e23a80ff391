// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package task

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/graveyard/internal/config"
	"github.com/tomtom215/graveyard/internal/fetcher"
	"github.com/tomtom215/graveyard/internal/models"
	"github.com/tomtom215/graveyard/internal/store"
)

// Context is injected into every Task.Run call (§4.5 "its invocation
// receives a settings map"). It bundles the worker-owned Fetcher (built
// fresh per Account so each worker keeps its own cookie jar and pacing
// clock — §4.2, §4.7), the shared Store, the Settings snapshot the
// Scheduler loaded for this fleet build, and the Account the task runs
// against.
type Context struct {
	Fetcher  *fetcher.Fetcher
	Store    *store.Store
	Settings config.Settings
	Account  *models.Account
	Logger   zerolog.Logger

	// CacheDir is the attachment cache root (§6 CLI -c), used only by the
	// attachment realization routine.
	CacheDir string
}

// NewContext builds a Context with a fresh Fetcher for account, configured
// from settings and an optional proxyURL (the empty string for the
// primary worker — §4.8 "one primary worker plus one per proxy").
func NewContext(account *models.Account, st *store.Store, settings config.Settings, proxyURL, cacheDir string, logger zerolog.Logger) (*Context, error) {
	f, err := fetcher.New(fetcher.Config{
		SessionCookie:     account.SessionCookie,
		ProxyURL:          proxyURL,
		RequestsPerMinute: settings.RequestsPerMinute,
	})
	if err != nil {
		return nil, err
	}
	return &Context{
		Fetcher:  f,
		Store:    st,
		Settings: settings,
		Account:  account,
		Logger:   logger.With().Str("account", account.Name).Logger(),
		CacheDir: cacheDir,
	}, nil
}
