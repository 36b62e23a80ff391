// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package store

import "github.com/tomtom215/graveyard/internal/models"

// UserSpec drives Upsert for models.User (§4.6 fetchUser / FollowingFollowerTask).
var UserSpec = EntitySpec{
	Table:              models.UserTable,
	HistoricalTable:    models.UserHistoricalTable,
	HistoricalFKColumn: "user_id",
	UniqueCols:         []string{"douban_id"},
	ComparedAttrs:      models.UserComparedAttrs,
	Versioned:          true,
}

// UserExtraSpec drives Upsert for models.UserExtra. There is no history
// for the counters table: a fresh profile fetch simply overwrites it.
var UserExtraSpec = EntitySpec{
	Table:         models.UserExtraTable,
	UniqueCols:    []string{"user_id"},
	ComparedAttrs: models.UserExtraComparedAttrs,
	Versioned:     false,
}

// SubjectSpec builds the EntitySpec for one of the three interest
// collections (§4.6 InterestsTask).
func SubjectSpec(kind models.SubjectKind) EntitySpec {
	table, historical := kind.Tables()
	return EntitySpec{
		Table:              table,
		HistoricalTable:    historical,
		HistoricalFKColumn: "subject_id_fk",
		UniqueCols:         []string{"subject_id"},
		ComparedAttrs:      kind.ComparedAttrs(),
		Versioned:          true,
	}
}

// InterestSpec drives Upsert for models.Interest. A rating/tags/comment/
// status edit archives the prior row into interests_historical with
// deleted_at=now before applying the new values (§4.6 "the current row is
// archived with deleted_at=now before replacement"); Interest has no
// version column, so ArchiveOnChange is set without Versioned. Reconcile
// separately archives an Interest that disappears from a fresh snapshot
// entirely.
var InterestSpec = EntitySpec{
	Table:              models.InterestTable,
	HistoricalTable:    models.InterestHistoricalTable,
	HistoricalFKColumn: "interest_id",
	UniqueCols:         []string{"user_id", "kind", "subject_id"},
	ComparedAttrs:      models.InterestComparedAttrs,
	Versioned:          false,
	ArchiveOnChange:    true,
	ArchiveTimeColumn:  "deleted_at",
}

// NoteSpec drives Upsert for models.Note.
var NoteSpec = EntitySpec{
	Table:              models.NoteTable,
	HistoricalTable:    models.NoteHistoricalTable,
	HistoricalFKColumn: "note_id",
	UniqueCols:         []string{"douban_id"},
	ComparedAttrs:      models.NoteComparedAttrs,
	Versioned:          true,
}

// PhotoAlbumSpec drives Upsert for models.PhotoAlbum.
var PhotoAlbumSpec = EntitySpec{
	Table:              models.PhotoAlbumTable,
	HistoricalTable:    models.PhotoAlbumHistoricalTable,
	HistoricalFKColumn: "album_id",
	UniqueCols:         []string{"douban_id"},
	ComparedAttrs:      models.PhotoAlbumComparedAttrs,
	Versioned:          true,
}

// PhotoPictureSpec drives Upsert for models.PhotoPicture.
var PhotoPictureSpec = EntitySpec{
	Table:              models.PhotoPictureTable,
	HistoricalTable:    models.PhotoPictureHistoricalTable,
	HistoricalFKColumn: "picture_id",
	UniqueCols:         []string{"douban_id"},
	ComparedAttrs:      models.PhotoPictureComparedAttrs,
	Versioned:          true,
}

// BroadcastSpec drives Upsert for models.Broadcast.
var BroadcastSpec = EntitySpec{
	Table:              models.BroadcastTable,
	HistoricalTable:    models.BroadcastHistoricalTable,
	HistoricalFKColumn: "broadcast_id",
	UniqueCols:         []string{"douban_id"},
	ComparedAttrs:      models.BroadcastComparedAttrs,
	Versioned:          true,
}

// CommentSpec drives Upsert for models.Comment.
var CommentSpec = EntitySpec{
	Table:              models.CommentTable,
	HistoricalTable:    models.CommentHistoricalTable,
	HistoricalFKColumn: "comment_id",
	UniqueCols:         []string{"target_type", "target_douban_id", "douban_id"},
	ComparedAttrs:      models.CommentComparedAttrs,
	Versioned:          true,
}

// RelationSpec builds the EntitySpec for one of the three following/
// follower/block relation kinds (§4.6 FollowingFollowerTask). Relations
// carry no per-attribute history: ComparedAttrs is empty, so Upsert always
// takes the touch-updated_at branch, and full history is written only by
// Reconcile when the edge disappears.
func RelationSpec(kind models.RelationKind) EntitySpec {
	table, historical := kind.Tables()
	return EntitySpec{
		Table:              table,
		HistoricalTable:    historical,
		HistoricalFKColumn: "relation_id",
		UniqueCols:         []string{"user_id", "name"},
		ComparedAttrs:      models.RelationComparedAttrs,
		Versioned:          false,
	}
}

// FavoriteSpec drives Upsert for models.Favorite (§4.6 LikeTask).
var FavoriteSpec = EntitySpec{
	Table:              models.FavoriteTable,
	HistoricalTable:    models.FavoriteHistoricalTable,
	HistoricalFKColumn: "favorite_id",
	UniqueCols:         []string{"user_id", "target_type", "target_id"},
	ComparedAttrs:      models.FavoriteComparedAttrs,
	Versioned:          false,
}
