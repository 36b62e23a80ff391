// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/tomtom215/graveyard/internal/config"
	"github.com/tomtom215/graveyard/internal/models"
)

// LoadSettings reads the Setting KV table into a typed config.Settings
// snapshot, seeding config.DefaultSettings for any key that has never been
// written. The Scheduler calls this fresh on every StartWorkers (§4.5,
// §5: "Settings are read by tasks per invocation — no live reload"), so a
// key an operator just wrote takes effect on the next fleet build, not the
// current one.
func (s *Store) LoadSettings(ctx context.Context) (config.Settings, error) {
	settings := config.DefaultSettings()

	rows, err := s.conn.QueryContext(ctx, fmt.Sprintf("SELECT key, value FROM %s", models.SettingTable))
	if err != nil {
		return settings, fmt.Errorf("load settings: %w", err)
	}
	defer rows.Close()

	raw := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return settings, fmt.Errorf("load settings: %w", err)
		}
		raw[k] = v
	}
	if err := rows.Err(); err != nil {
		return settings, fmt.Errorf("load settings: %w", err)
	}

	if v, ok := raw[models.SettingRequestsPerMinute]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			settings.RequestsPerMinute = n
		}
	}
	if v, ok := raw[models.SettingLocalObjectDuration]; ok {
		if d, err := time.ParseDuration(v); err == nil {
			settings.LocalObjectDuration = d
		}
	}
	if v, ok := raw[models.SettingBroadcastActiveDuration]; ok {
		if d, err := time.ParseDuration(v); err == nil {
			settings.BroadcastActiveDuration = d
		}
	}
	if v, ok := raw[models.SettingBroadcastIncremental]; ok {
		settings.BroadcastIncremental = v == "true"
	}
	if v, ok := raw[models.SettingImageLocalCache]; ok {
		settings.ImageLocalCache = v == "true"
	}
	if v, ok := raw[models.SettingProxies]; ok && v != "" {
		var proxies []string
		if err := json.Unmarshal([]byte(v), &proxies); err != nil {
			return settings, fmt.Errorf("load settings: parse %s: %w", models.SettingProxies, err)
		}
		settings.Proxies = proxies
	}

	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("load settings: %w", err)
	}
	return settings, nil
}

// SaveSetting upserts a single key (§6 settings CLI writes one key at a
// time).
func (s *Store) SaveSetting(ctx context.Context, key, value string) error {
	_, err := s.conn.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`, models.SettingTable),
		key, value)
	return err
}

// SaveSettings persists every field of a Settings snapshot as individual
// KV rows in one transaction.
func (s *Store) SaveSettings(ctx context.Context, settings config.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	proxies := settings.Proxies
	if proxies == nil {
		proxies = []string{}
	}
	proxiesJSON, err := json.Marshal(proxies)
	if err != nil {
		return fmt.Errorf("save settings: encode %s: %w", models.SettingProxies, err)
	}

	return s.WithTx(ctx, func(tx *sql.Tx) error {
		kv := map[string]string{
			models.SettingRequestsPerMinute:       strconv.Itoa(settings.RequestsPerMinute),
			models.SettingLocalObjectDuration:     settings.LocalObjectDuration.String(),
			models.SettingBroadcastActiveDuration: settings.BroadcastActiveDuration.String(),
			models.SettingBroadcastIncremental:    strconv.FormatBool(settings.BroadcastIncremental),
			models.SettingImageLocalCache:         strconv.FormatBool(settings.ImageLocalCache),
			models.SettingProxies:                 string(proxiesJSON),
		}
		for k, v := range kv {
			if _, err := tx.ExecContext(ctx,
				fmt.Sprintf(`INSERT INTO %s (key, value) VALUES (?, ?)
					ON CONFLICT(key) DO UPDATE SET value = excluded.value`, models.SettingTable),
				k, v); err != nil {
				return fmt.Errorf("save setting %s: %w", k, err)
			}
		}
		return nil
	})
}
