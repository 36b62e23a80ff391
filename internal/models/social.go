// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package models

import "time"

// RelationKind names the three set-valued per-user relations reconciled by
// FollowingFollowerTask (§4.6).
type RelationKind string

const (
	RelationFollowing RelationKind = "following"
	RelationFollower  RelationKind = "follower"
	RelationBlock     RelationKind = "block"
)

// Tables returns the current/historical table name pair for a RelationKind.
func (k RelationKind) Tables() (current, historical string) {
	switch k {
	case RelationFollowing:
		return "followings", "followings_historical"
	case RelationFollower:
		return "followers", "followers_historical"
	case RelationBlock:
		return "block_users", "block_users_historical"
	default:
		panic("models: unknown relation kind " + string(k))
	}
}

// Relation is unique by (user_id, name) — a following/follower/block edge
// owned by UserID, pointing at a profile named Name (the other user's
// unique_name, not necessarily resolved to a User row).
type Relation struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// RelationHistorical records a Relation that disappeared from a fresh
// snapshot.
type RelationHistorical struct {
	ID         int64     `db:"id"`
	RelationID int64     `db:"relation_id"`
	UserID     int64     `db:"user_id"`
	Name       string    `db:"name"`
	CreatedAt  time.Time `db:"created_at"`
	DeletedAt  time.Time `db:"deleted_at"`
}

// RelationComparedAttrs is empty: a Relation either exists or it doesn't,
// there is no attribute to change in place once the (user, name) key
// matches — reconciliation only ever touches UpdatedAt.
var RelationComparedAttrs = []string{}

// Favorite is a "like" on a target (type + external id), with tags.
type Favorite struct {
	ID         int64     `db:"id"`
	UserID     int64     `db:"user_id"`
	TargetType string    `db:"target_type"`
	TargetID   int64     `db:"target_id"`
	Tags       string    `db:"tags"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// FavoriteHistorical records a Favorite that disappeared from a fresh
// snapshot.
type FavoriteHistorical struct {
	ID         int64     `db:"id"`
	FavoriteID int64     `db:"favorite_id"`
	UserID     int64     `db:"user_id"`
	TargetType string    `db:"target_type"`
	TargetID   int64     `db:"target_id"`
	Tags       string    `db:"tags"`
	CreatedAt  time.Time `db:"created_at"`
	DeletedAt  time.Time `db:"deleted_at"`
}

const (
	FavoriteTable           = "favorites"
	FavoriteHistoricalTable = "favorites_historical"
)

// FavoriteComparedAttrs defines equality for a Favorite upsert.
var FavoriteComparedAttrs = []string{"tags"}
