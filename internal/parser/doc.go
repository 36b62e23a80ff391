// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

// Package parser maps raw HTTP response bodies to the canonical records
// of internal/models (§4.3). JSON decoders handle the site's mobile/web
// APIs; HTML decoders use goquery CSS selectors for pages with no API.
// Every exported function is a pure (body, context) -> (record, error)
// mapping: a missing optional field yields a zero value, never a panic,
// and a missing required identifying field causes ErrSkip (§7 "ParseMissing").
package parser
