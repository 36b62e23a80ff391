// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package models

import "time"

// Account is a backed-up site account bound to a browser session cookie.
// At most one Account may have IsActivated set; an activated account whose
// UserID is non-zero is the default account the UI operates on.
type Account struct {
	ID             int64     `db:"id"`
	Name           string    `db:"name"`
	UserID         int64     `db:"user_id"` // 0 means unbound
	SessionCookie  string    `db:"session_cookie"`
	IsActivated    bool      `db:"is_activated"`
	IsInvalid      bool      `db:"is_invalid"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// HasUser reports whether the account is bound to a User row.
func (a *Account) HasUser() bool {
	return a.UserID != 0
}

// AccountTable is the store's table name for Account.
const AccountTable = "accounts"

// AccountComparedAttrs defines equality for Account upserts. Accounts are
// never versioned/archived (no historical table — §3 lists no invariant
// requiring history for credentials), so this is used only by safeUpdate's
// column filter, not by the clone-on-change branch of apply().
var AccountComparedAttrs = []string{"session_cookie", "is_activated", "is_invalid", "user_id"}
