// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package store

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a lookup by unique key or id matches no
	// row.
	ErrNotFound = errors.New("store: not found")

	// ErrIntegrityViolation is returned internally when an INSERT collides
	// with a unique constraint; Upsert handles it, callers should not see
	// it unless they bypass Upsert.
	ErrIntegrityViolation = errors.New("store: integrity violation")

	// ErrTxnAborted wraps any error that forced a reconciliation or upsert
	// transaction to roll back.
	ErrTxnAborted = errors.New("store: transaction aborted")
)

// isIntegrityViolation reports whether err is a SQLite UNIQUE/PRIMARY KEY
// constraint failure. modernc.org/sqlite surfaces these as *sqlite.Error
// with a message containing "constraint failed"; matching on the message
// avoids an import-only-for-a-type-switch dependency on the driver's
// internal error type across the rest of the package.
func isIntegrityViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "constraint failed") ||
		strings.Contains(msg, "constraint violation")
}
