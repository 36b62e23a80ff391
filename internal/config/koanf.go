// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for an optional YAML override,
// first match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/graveyard/config.yaml",
}

// ConfigPathEnvVar overrides the search list with a single explicit path.
const ConfigPathEnvVar = "GRAVEYARD_CONFIG_PATH"

// CLIOverrides are the flags parsed by cmd/graveyardd/main.go (§6); any
// non-zero field here takes precedence over env vars and the config file.
type CLIOverrides struct {
	Port         int
	DatabasePath string
	CacheDir     string
	LogDir       string
	Debug        bool
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8398,
		},
		Store: StoreConfig{
			DatabasePath: "var/data/graveyard.db",
			CacheDir:     "var/cache",
			LogDir:       "var/log",
			BusyTimeout:  30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Debug:  false,
		},
		Security: SecurityConfig{
			CredentialSecret: "",
		},
	}
}

// Load builds a Config from defaults, an optional YAML file, environment
// variables (GRAVEYARD_* prefix), and finally explicit CLI overrides, in
// that ascending priority order — the same layering the teacher uses for
// its own Koanf setup, trimmed to this program's much smaller settings
// surface.
func Load(cli CLIOverrides) (*Config, error) {
	k := koanf.New(".")
	defaults := defaultConfig()

	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if configPath := resolveConfigPath(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider(".", env.Opt{
		Prefix: "GRAVEYARD_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "GRAVEYARD_"))
			key = strings.ReplaceAll(key, "_", ".")
			return key, value
		},
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	applyCLIOverrides(&cfg, cli)

	if cfg.Security.CredentialSecret == "" {
		cfg.Security.CredentialSecret = generateEphemeralSecret()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyCLIOverrides(cfg *Config, cli CLIOverrides) {
	if cli.Port != 0 {
		cfg.Server.Port = cli.Port
	}
	if cli.DatabasePath != "" {
		cfg.Store.DatabasePath = cli.DatabasePath
	}
	if cli.CacheDir != "" {
		cfg.Store.CacheDir = cli.CacheDir
	}
	if cli.LogDir != "" {
		cfg.Store.LogDir = cli.LogDir
	}
	if cli.Debug {
		cfg.Logging.Debug = true
		cfg.Logging.Level = "debug"
	}
}

func resolveConfigPath() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
