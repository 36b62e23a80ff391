// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package models

import "time"

// PhotoAlbum is owned by a user; refreshed when the site-reported
// LastUpdated advances or the local copy exceeds its TTL (§3).
type PhotoAlbum struct {
	ID           int64     `db:"id"`
	DoubanID     int64     `db:"douban_id"`
	UserID       int64     `db:"user_id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	Cover        string    `db:"cover"`
	PhotoCount   int64     `db:"photo_count"`
	LastUpdated  time.Time `db:"last_updated"` // site-reported
	Version      int64     `db:"version"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// PhotoAlbumHistorical archives a prior PhotoAlbum state.
type PhotoAlbumHistorical struct {
	ID          int64     `db:"id"`
	AlbumID     int64     `db:"album_id"`
	DoubanID    int64     `db:"douban_id"`
	UserID      int64     `db:"user_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Cover       string    `db:"cover"`
	PhotoCount  int64     `db:"photo_count"`
	LastUpdated time.Time `db:"last_updated"`
	Version     int64     `db:"version"`
	ArchivedAt  time.Time `db:"archived_at"`
}

// PhotoPicture is one photo within an album.
type PhotoPicture struct {
	ID          int64     `db:"id"`
	DoubanID    int64     `db:"douban_id"`
	AlbumID     int64     `db:"album_id"`
	Description string    `db:"description"`
	ImageURL    string    `db:"image_url"`
	Version     int64     `db:"version"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// PhotoPictureHistorical archives a prior PhotoPicture state.
type PhotoPictureHistorical struct {
	ID          int64     `db:"id"`
	PictureID   int64     `db:"picture_id"`
	DoubanID    int64     `db:"douban_id"`
	AlbumID     int64     `db:"album_id"`
	Description string    `db:"description"`
	ImageURL    string    `db:"image_url"`
	Version     int64     `db:"version"`
	ArchivedAt  time.Time `db:"archived_at"`
}

const (
	PhotoAlbumTable             = "photo_albums"
	PhotoAlbumHistoricalTable   = "photo_albums_historical"
	PhotoPictureTable           = "photo_pictures"
	PhotoPictureHistoricalTable = "photo_pictures_historical"
)

// PhotoAlbumComparedAttrs defines equality for a PhotoAlbum upsert.
var PhotoAlbumComparedAttrs = []string{"title", "description", "cover", "photo_count", "last_updated"}

// PhotoPictureComparedAttrs defines equality for a PhotoPicture upsert.
var PhotoPictureComparedAttrs = []string{"description", "image_url"}

// Expired reports whether this album's local copy should be refetched,
// given the configured local-object duration.
func (a *PhotoAlbum) Expired(now time.Time, localObjectDuration time.Duration) bool {
	return now.Sub(a.UpdatedAt) > localObjectDuration
}
