// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

/*
schema.go defines the complete table set in a single pass, mirroring the
teacher's pre-release schema strategy: every column is part of the initial
CREATE TABLE, and there are no migrations to run at startup. If the schema
needs to change after real archives exist, add a migrations.go the way the
teacher's CLAUDE.md describes, instead of editing these statements.
*/
package store

import (
	"context"
	"fmt"
)

func (s *Store) ensureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, schemaTimeout)
	defer cancel()

	for _, stmt := range schemaStatements {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec schema statement: %s: %w", stmt, err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		user_id INTEGER NOT NULL DEFAULT 0,
		session_cookie TEXT NOT NULL,
		is_activated INTEGER NOT NULL DEFAULT 0,
		is_invalid INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		douban_id INTEGER NOT NULL UNIQUE,
		unique_name TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		avatar TEXT NOT NULL DEFAULT '',
		signature TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		version INTEGER NOT NULL DEFAULT 1,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users_historical (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		douban_id INTEGER NOT NULL,
		unique_name TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		avatar TEXT NOT NULL DEFAULT '',
		signature TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		version INTEGER NOT NULL,
		archived_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_historical_user_id ON users_historical(user_id)`,

	`CREATE TABLE IF NOT EXISTS user_extras (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL UNIQUE,
		following_count INTEGER NOT NULL DEFAULT 0,
		follower_count INTEGER NOT NULL DEFAULT 0,
		broadcast_count INTEGER NOT NULL DEFAULT 0,
		album_count INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL
	)`,

	subjectSchema("books"),
	subjectSchema("movies"),
	subjectSchema("music"),

	`CREATE TABLE IF NOT EXISTS interests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		subject_id INTEGER NOT NULL,
		status TEXT NOT NULL,
		rating INTEGER NOT NULL DEFAULT 0,
		tags TEXT NOT NULL DEFAULT '',
		comment TEXT NOT NULL DEFAULT '',
		create_time TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(user_id, kind, subject_id)
	)`,
	`CREATE TABLE IF NOT EXISTS interests_historical (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		interest_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		subject_id INTEGER NOT NULL,
		status TEXT NOT NULL,
		rating INTEGER NOT NULL DEFAULT 0,
		tags TEXT NOT NULL DEFAULT '',
		comment TEXT NOT NULL DEFAULT '',
		create_time TEXT NOT NULL,
		deleted_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_interests_historical_interest_id ON interests_historical(interest_id)`,

	`CREATE TABLE IF NOT EXISTS notes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		douban_id INTEGER NOT NULL UNIQUE,
		user_id INTEGER NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		subject_kind TEXT NOT NULL DEFAULT '',
		subject_id INTEGER NOT NULL DEFAULT 0,
		attachments TEXT NOT NULL DEFAULT '[]',
		published_at TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notes_historical (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		note_id INTEGER NOT NULL,
		douban_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		subject_kind TEXT NOT NULL DEFAULT '',
		subject_id INTEGER NOT NULL DEFAULT 0,
		attachments TEXT NOT NULL DEFAULT '[]',
		published_at TEXT NOT NULL,
		version INTEGER NOT NULL,
		archived_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_historical_note_id ON notes_historical(note_id)`,

	`CREATE TABLE IF NOT EXISTS photo_albums (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		douban_id INTEGER NOT NULL UNIQUE,
		user_id INTEGER NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		cover TEXT NOT NULL DEFAULT '',
		photo_count INTEGER NOT NULL DEFAULT 0,
		last_updated TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS photo_albums_historical (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		album_id INTEGER NOT NULL,
		douban_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		cover TEXT NOT NULL DEFAULT '',
		photo_count INTEGER NOT NULL DEFAULT 0,
		last_updated TEXT NOT NULL,
		version INTEGER NOT NULL,
		archived_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_photo_albums_historical_album_id ON photo_albums_historical(album_id)`,

	`CREATE TABLE IF NOT EXISTS photo_pictures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		douban_id INTEGER NOT NULL UNIQUE,
		album_id INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		version INTEGER NOT NULL DEFAULT 1,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS photo_pictures_historical (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		picture_id INTEGER NOT NULL,
		douban_id INTEGER NOT NULL,
		album_id INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		version INTEGER NOT NULL,
		archived_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_photo_pictures_historical_picture_id ON photo_pictures_historical(picture_id)`,
	`CREATE INDEX IF NOT EXISTS idx_photo_pictures_album_id ON photo_pictures(album_id)`,

	`CREATE TABLE IF NOT EXISTS broadcasts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		douban_id INTEGER NOT NULL UNIQUE,
		author_user_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		text TEXT NOT NULL DEFAULT '',
		attachments TEXT NOT NULL DEFAULT '[]',
		reshare_of_douban_id INTEGER NOT NULL DEFAULT 0,
		reshared_count INTEGER NOT NULL DEFAULT 0,
		like_count INTEGER NOT NULL DEFAULT 0,
		comments_count INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS broadcasts_historical (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		broadcast_id INTEGER NOT NULL,
		douban_id INTEGER NOT NULL,
		author_user_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		text TEXT NOT NULL DEFAULT '',
		attachments TEXT NOT NULL DEFAULT '[]',
		reshare_of_douban_id INTEGER NOT NULL DEFAULT 0,
		reshared_count INTEGER NOT NULL DEFAULT 0,
		like_count INTEGER NOT NULL DEFAULT 0,
		comments_count INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		version INTEGER NOT NULL,
		archived_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_broadcasts_historical_broadcast_id ON broadcasts_historical(broadcast_id)`,
	`CREATE INDEX IF NOT EXISTS idx_broadcasts_author_user_id ON broadcasts(author_user_id)`,

	`CREATE TABLE IF NOT EXISTS timelines (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		broadcast_id INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(user_id, broadcast_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_timelines_user_id ON timelines(user_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		douban_id INTEGER NOT NULL,
		target_type TEXT NOT NULL,
		target_douban_id INTEGER NOT NULL,
		author_user_id INTEGER NOT NULL,
		text TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		updated_at TEXT NOT NULL,
		UNIQUE(target_type, target_douban_id, douban_id)
	)`,
	`CREATE TABLE IF NOT EXISTS comments_historical (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		comment_id INTEGER NOT NULL,
		douban_id INTEGER NOT NULL,
		target_type TEXT NOT NULL,
		target_douban_id INTEGER NOT NULL,
		author_user_id INTEGER NOT NULL,
		text TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		version INTEGER NOT NULL,
		archived_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_historical_comment_id ON comments_historical(comment_id)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_target ON comments(target_type, target_douban_id)`,

	relationSchema("followings"),
	relationSchema("followers"),
	relationSchema("block_users"),

	`CREATE TABLE IF NOT EXISTS favorites (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		target_type TEXT NOT NULL,
		target_id INTEGER NOT NULL,
		tags TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(user_id, target_type, target_id)
	)`,
	`CREATE TABLE IF NOT EXISTS favorites_historical (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		favorite_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		target_type TEXT NOT NULL,
		target_id INTEGER NOT NULL,
		tags TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		deleted_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_favorites_historical_favorite_id ON favorites_historical(favorite_id)`,

	`CREATE TABLE IF NOT EXISTS attachments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_url TEXT NOT NULL UNIQUE,
		mime_type TEXT NOT NULL DEFAULT '',
		local_filename TEXT NOT NULL DEFAULT '',
		ref_count INTEGER NOT NULL DEFAULT 1,
		retries INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

func subjectSchema(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		subject_id INTEGER NOT NULL UNIQUE,
		title TEXT NOT NULL DEFAULT '',
		alt_title TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT '',
		summary TEXT NOT NULL DEFAULT '',
		rating REAL NOT NULL DEFAULT 0,
		tags TEXT NOT NULL DEFAULT '',
		attrs TEXT NOT NULL DEFAULT '',
		alt TEXT NOT NULL DEFAULT '',
		version INTEGER NOT NULL DEFAULT 1,
		updated_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS %s_historical (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		subject_id_fk INTEGER NOT NULL,
		subject_id INTEGER NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		alt_title TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT '',
		summary TEXT NOT NULL DEFAULT '',
		rating REAL NOT NULL DEFAULT 0,
		tags TEXT NOT NULL DEFAULT '',
		attrs TEXT NOT NULL DEFAULT '',
		alt TEXT NOT NULL DEFAULT '',
		version INTEGER NOT NULL,
		archived_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_%s_historical_subject_id_fk ON %s_historical(subject_id_fk);`,
		table, table, table, table)
}

func relationSchema(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(user_id, name)
	);
	CREATE TABLE IF NOT EXISTS %s_historical (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		relation_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL,
		deleted_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_%s_historical_relation_id ON %s_historical(relation_id);
	CREATE INDEX IF NOT EXISTS idx_%s_user_id ON %s(user_id);`,
		table, table, table, table, table, table)
}
