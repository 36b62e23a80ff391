// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/graveyard/internal/config"
	"github.com/tomtom215/graveyard/internal/models"
)

// TestSaveSettings_ProxiesRoundTripAsJSONList covers §6: worker.proxies is a
// JSON list of proxy URLs, not a comma-joined string — a proxy URL with a
// comma in its query string must survive the round trip intact.
func TestSaveSettings_ProxiesRoundTripAsJSONList(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	settings := config.DefaultSettings()
	settings.Proxies = []string{
		"http://proxy-a.example.com:8080",
		"http://proxy-b.example.com:8080?tag=a,b",
	}
	require.NoError(t, st.SaveSettings(ctx, settings))

	var raw string
	require.NoError(t, st.Conn().QueryRow(`SELECT value FROM settings WHERE key = ?`, models.SettingProxies).Scan(&raw))
	assert.Equal(t, `["http://proxy-a.example.com:8080","http://proxy-b.example.com:8080?tag=a,b"]`, raw)

	loaded, err := st.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.Proxies, loaded.Proxies)
}

// TestSaveSettings_EmptyProxiesRoundTrip covers the zero-proxy case: the
// stored value must still decode cleanly rather than tripping the "empty
// string skips unmarshal" guard.
func TestSaveSettings_EmptyProxiesRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	settings := config.DefaultSettings()
	require.NoError(t, st.SaveSettings(ctx, settings))

	loaded, err := st.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.Proxies)
}
