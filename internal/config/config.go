// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package config

import (
	"fmt"
	"time"
)

// Config holds the process-bootstrap configuration: everything the CLI (§6)
// needs before the store is opened. It is loaded once via Koanf v2 (env vars
// override an optional YAML file override built-in defaults) and is
// immutable for the life of the process.
//
// Everything the Scheduler/Worker fleet needs on a per-invocation basis
// (rate limits, TTLs, proxies, feature flags) instead lives in the
// database-backed Setting KV store and is loaded into a Settings snapshot
// by internal/store — see Settings below and §4.5/§6.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Store    StoreConfig    `koanf:"store"`
	Logging  LoggingConfig  `koanf:"logging"`
	Security SecurityConfig `koanf:"security"`
}

// ServerConfig is the parent process's HTTP/WebSocket listener (§6 CLI: -p).
type ServerConfig struct {
	Port int `koanf:"port"` // default 8398
}

// StoreConfig locates the embedded relational file and the attachment cache
// directory (§6 CLI: -s, -c).
type StoreConfig struct {
	DatabasePath string `koanf:"database_path"` // default var/data/graveyard.db
	CacheDir     string `koanf:"cache_dir"`      // default var/cache
	LogDir       string `koanf:"log_dir"`

	// BusyTimeout bounds how long a writer blocks on a locked database file
	// before giving up (§4.1, §6: "opened with a busy-wait timeout").
	BusyTimeout time.Duration `koanf:"busy_timeout"`
}

// LoggingConfig controls the ambient zerolog setup (not a spec.md
// component, but required by every other component's logging calls).
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Debug  bool   `koanf:"debug"` // §6 CLI: -d
}

// SecurityConfig holds the key used to encrypt Account.SessionCookie at
// rest (SPEC_FULL.md ambient stack).
type SecurityConfig struct {
	CredentialSecret string `koanf:"credential_secret"`
}

// Validate checks the loaded configuration for obviously invalid values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	if c.Store.DatabasePath == "" {
		return fmt.Errorf("config: store.database_path must not be empty")
	}
	if c.Store.CacheDir == "" {
		return fmt.Errorf("config: store.cache_dir must not be empty")
	}
	if c.Store.BusyTimeout <= 0 {
		return fmt.Errorf("config: store.busy_timeout must be positive")
	}
	if c.Security.CredentialSecret == "" {
		return fmt.Errorf("config: security.credential_secret must not be empty")
	}
	return nil
}
