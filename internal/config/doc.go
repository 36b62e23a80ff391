// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

// Package config provides the two layers of configuration the backup
// engine needs:
//
//   - Config: process-bootstrap settings (listen port, database/cache
//     paths, logging), loaded once at startup via Koanf v2 with env vars
//     overriding an optional YAML file overriding built-in defaults.
//   - Settings: the database-backed worker configuration of §6 (rate
//     limit, TTLs, proxies, feature flags), loaded fresh by the Scheduler
//     each time it (re)builds the worker fleet.
//
// Account session cookies are encrypted at rest with CredentialEncryptor,
// an AES-256-GCM scheme keyed off Security.CredentialSecret via HKDF.
package config
