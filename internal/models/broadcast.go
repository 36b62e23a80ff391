// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package models

import "time"

// BroadcastKind distinguishes the three shapes a Broadcast record takes.
type BroadcastKind string

const (
	BroadcastReshare BroadcastKind = "reshare"
	BroadcastSaying  BroadcastKind = "saying"
	BroadcastNoReply BroadcastKind = "noreply"
)

// Broadcast is a status post. Broadcasts are shared across users: a
// reshare's ReshareOfDoubanID points at another Broadcast's DoubanID,
// independent of whose Timeline references it.
type Broadcast struct {
	ID               int64     `db:"id"`
	DoubanID         int64     `db:"douban_id"`
	AuthorUserID     int64     `db:"author_user_id"`
	Kind             string    `db:"kind"`
	Text             string    `db:"text"`
	Attachments      string    `db:"attachments"` // JSON array of image URLs (saying only)
	ReshareOfDoubanID int64    `db:"reshare_of_douban_id"`
	ResharedCount    int64     `db:"reshared_count"`
	LikeCount        int64     `db:"like_count"`
	CommentsCount    int64     `db:"comments_count"`
	CreatedAt        time.Time `db:"created_at"` // site-reported post time
	Version          int64     `db:"version"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// BroadcastHistorical archives a prior Broadcast state.
type BroadcastHistorical struct {
	ID                int64     `db:"id"`
	BroadcastID       int64     `db:"broadcast_id"`
	DoubanID          int64     `db:"douban_id"`
	AuthorUserID      int64     `db:"author_user_id"`
	Kind              string    `db:"kind"`
	Text              string    `db:"text"`
	Attachments       string    `db:"attachments"`
	ReshareOfDoubanID int64     `db:"reshare_of_douban_id"`
	ResharedCount     int64     `db:"reshared_count"`
	LikeCount         int64     `db:"like_count"`
	CommentsCount     int64     `db:"comments_count"`
	CreatedAt         time.Time `db:"created_at"`
	Version           int64     `db:"version"`
	ArchivedAt        time.Time `db:"archived_at"`
}

// Timeline links one user's chronological feed to a shared Broadcast.
type Timeline struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	BroadcastID int64     `db:"broadcast_id"`
	CreatedAt   time.Time `db:"created_at"`
}

const (
	BroadcastTable           = "broadcasts"
	BroadcastHistoricalTable = "broadcasts_historical"
	TimelineTable            = "timelines"
)

// BroadcastComparedAttrs defines equality for a Broadcast upsert (§3: the
// three counters are the compared attributes; text/attachments never
// change once posted on the source site).
var BroadcastComparedAttrs = []string{"reshared_count", "like_count", "comments_count"}

// Comment is unique by (target_type, target_douban_id, douban_id).
type Comment struct {
	ID             int64     `db:"id"`
	DoubanID       int64     `db:"douban_id"`
	TargetType     string    `db:"target_type"` // "broadcast", "note", ...
	TargetDoubanID int64     `db:"target_douban_id"`
	AuthorUserID   int64     `db:"author_user_id"`
	Text           string    `db:"text"`
	CreatedAt      time.Time `db:"created_at"`
	Version        int64     `db:"version"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// CommentHistorical archives a prior Comment state.
type CommentHistorical struct {
	ID             int64     `db:"id"`
	CommentID      int64     `db:"comment_id"`
	DoubanID       int64     `db:"douban_id"`
	TargetType     string    `db:"target_type"`
	TargetDoubanID int64     `db:"target_douban_id"`
	AuthorUserID   int64     `db:"author_user_id"`
	Text           string    `db:"text"`
	CreatedAt      time.Time `db:"created_at"`
	Version        int64     `db:"version"`
	ArchivedAt     time.Time `db:"archived_at"`
}

const (
	CommentTable           = "comments"
	CommentHistoricalTable = "comments_historical"
)

// CommentComparedAttrs defines equality for a Comment upsert.
var CommentComparedAttrs = []string{"text"}
