// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package models

import "time"

// Subject is the free-form text attributes shared by Book/Movie/Music
// entities, keyed by an external subject id.
type Subject struct {
	ID         int64     `db:"id"`
	SubjectID  int64     `db:"subject_id"`
	Title      string    `db:"title"`
	AltTitle   string    `db:"alt_title"`
	Author     string    `db:"author"` // writer/director/artist depending on kind
	Image      string    `db:"image"`
	Summary    string    `db:"summary"`
	Rating     float64   `db:"rating"`
	Tags       string    `db:"tags"`
	Attrs      string    `db:"attrs"` // serialized free-form attribute bag
	Alt        string    `db:"alt"`   // canonical site URL
	Version    int64     `db:"version"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// SubjectHistorical archives a prior Subject state.
type SubjectHistorical struct {
	ID         int64     `db:"id"`
	SubjectRowID int64   `db:"subject_id_fk"`
	SubjectID  int64     `db:"subject_id"`
	Title      string    `db:"title"`
	AltTitle   string    `db:"alt_title"`
	Author     string    `db:"author"`
	Image      string    `db:"image"`
	Summary    string    `db:"summary"`
	Rating     float64   `db:"rating"`
	Tags       string    `db:"tags"`
	Attrs      string    `db:"attrs"`
	Alt        string    `db:"alt"`
	Version    int64     `db:"version"`
	ArchivedAt time.Time `db:"archived_at"`
}

// SubjectKind names the three interest collections of §4.6.
type SubjectKind string

const (
	SubjectBook  SubjectKind = "book"
	SubjectMovie SubjectKind = "movie"
	SubjectMusic SubjectKind = "music"
)

// Tables returns the current/historical table name pair for a SubjectKind.
func (k SubjectKind) Tables() (current, historical string) {
	switch k {
	case SubjectBook:
		return "books", "books_historical"
	case SubjectMovie:
		return "movies", "movies_historical"
	case SubjectMusic:
		return "music", "music_historical"
	default:
		panic("models: unknown subject kind " + string(k))
	}
}

// ComparedAttrs returns the compared-attribute list for a SubjectKind.
// Music's list fixes the source's dropped-comma bug noted in spec.md §9
// (the intended list, not the accidental "ratingauthor" token).
func (k SubjectKind) ComparedAttrs() []string {
	switch k {
	case SubjectMusic:
		return []string{"rating", "author", "alt_title", "image", "title", "summary", "attrs", "alt", "tags"}
	default:
		return []string{"rating", "author", "alt_title", "image", "title", "summary", "attrs", "alt", "tags"}
	}
}

// Interest is one user's mark/doing/done relation to a Subject (§4.6
// InterestsTask). It is the set-valued element reconciled per status.
type Interest struct {
	ID         int64     `db:"id"`
	UserID     int64     `db:"user_id"`
	Kind       string    `db:"kind"` // book|movie|music
	SubjectID  int64     `db:"subject_id"`
	Status     string    `db:"status"` // mark|doing|done
	Rating     int       `db:"rating"`
	Tags       string    `db:"tags"`
	Comment    string    `db:"comment"`
	CreateTime time.Time `db:"create_time"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// InterestHistorical records an Interest that disappeared from a fresh
// snapshot, with DeletedAt set to the reconciliation transaction time.
type InterestHistorical struct {
	ID         int64      `db:"id"`
	InterestID int64      `db:"interest_id"`
	UserID     int64      `db:"user_id"`
	Kind       string     `db:"kind"`
	SubjectID  int64      `db:"subject_id"`
	Status     string     `db:"status"`
	Rating     int        `db:"rating"`
	Tags       string     `db:"tags"`
	Comment    string     `db:"comment"`
	CreateTime time.Time  `db:"create_time"`
	DeletedAt  time.Time  `db:"deleted_at"`
}

const (
	InterestTable           = "interests"
	InterestHistoricalTable = "interests_historical"
)

// InterestComparedAttrs defines equality for an Interest upsert: any
// difference in rating/tags/comment/status is a change worth versioning.
var InterestComparedAttrs = []string{"status", "rating", "tags", "comment"}
