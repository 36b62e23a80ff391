// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package models

import "time"

// Note is a user-authored long-form text entry, optionally referencing a
// book/movie/music subject.
type Note struct {
	ID          int64     `db:"id"`
	DoubanID    int64     `db:"douban_id"`
	UserID      int64     `db:"user_id"`
	Title       string    `db:"title"`
	Content     string    `db:"content"`
	URL         string    `db:"url"`
	SubjectKind string    `db:"subject_kind"` // "", book, movie, music
	SubjectID   int64     `db:"subject_id"`
	Attachments string    `db:"attachments"` // JSON array of image URLs
	PublishedAt time.Time `db:"published_at"`
	Version     int64     `db:"version"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// NoteHistorical archives a prior Note state.
type NoteHistorical struct {
	ID          int64     `db:"id"`
	NoteID      int64     `db:"note_id"`
	DoubanID    int64     `db:"douban_id"`
	UserID      int64     `db:"user_id"`
	Title       string    `db:"title"`
	Content     string    `db:"content"`
	URL         string    `db:"url"`
	SubjectKind string    `db:"subject_kind"`
	SubjectID   int64     `db:"subject_id"`
	Attachments string    `db:"attachments"`
	PublishedAt time.Time `db:"published_at"`
	Version     int64     `db:"version"`
	ArchivedAt  time.Time `db:"archived_at"`
}

const (
	NoteTable           = "notes"
	NoteHistoricalTable = "notes_historical"
)

// NoteComparedAttrs defines equality for a Note upsert.
var NoteComparedAttrs = []string{"title", "content", "attachments"}
