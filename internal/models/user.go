// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package models

import "time"

// AnonymousUserDoubanID and AnonymousUserUniqueName identify the sentinel
// User row used as a placeholder when a reshare's inner author cannot be
// resolved. See SPEC_FULL.md "Anonymous user sentinel".
const (
	AnonymousUserDoubanID    = 0
	AnonymousUserUniqueName = "anonymous"
)

// User is a profile, keyed by two independent natural keys.
type User struct {
	ID         int64     `db:"id"`
	DoubanID   int64     `db:"douban_id"`
	UniqueName string    `db:"unique_name"`
	Name       string    `db:"name"`
	Avatar     string    `db:"avatar"`
	Signature  string    `db:"signature"`
	Location   string    `db:"location"`
	URL        string    `db:"url"`
	Version    int64     `db:"version"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// UserHistorical is the archived prior state of a User row.
type UserHistorical struct {
	ID         int64     `db:"id"`
	UserID     int64     `db:"user_id"`
	DoubanID   int64     `db:"douban_id"`
	UniqueName string    `db:"unique_name"`
	Name       string    `db:"name"`
	Avatar     string    `db:"avatar"`
	Signature  string    `db:"signature"`
	Location   string    `db:"location"`
	URL        string    `db:"url"`
	Version    int64     `db:"version"`
	ArchivedAt time.Time `db:"archived_at"`
}

// UserExtra is a 1:1 side table of counters fetched separately from the
// profile page.
type UserExtra struct {
	ID             int64     `db:"id"`
	UserID         int64     `db:"user_id"`
	FollowingCount int64     `db:"following_count"`
	FollowerCount  int64     `db:"follower_count"`
	BroadcastCount int64     `db:"broadcast_count"`
	AlbumCount     int64     `db:"album_count"`
	UpdatedAt      time.Time `db:"updated_at"`
}

const (
	UserTable           = "users"
	UserHistoricalTable = "users_historical"
	UserExtraTable      = "user_extras"
)

// UserComparedAttrs defines semantic equality for a User upsert (§4.1).
var UserComparedAttrs = []string{"name", "avatar", "signature", "location", "url"}

// UserExtraComparedAttrs defines semantic equality for a UserExtra upsert.
var UserExtraComparedAttrs = []string{"following_count", "follower_count", "broadcast_count", "album_count"}
