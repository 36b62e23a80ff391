// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package parser

import "errors"

// ErrSkip is returned (never wrapped further) when a record is missing a
// required identifying field — a broadcast with no douban_id, say. Callers
// drop the record and continue (§7 error kind 5 "ParseMissing").
var ErrSkip = errors.New("parser: record missing required field, skipped")
