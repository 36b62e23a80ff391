// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package models

import "time"

// Attachment is a binary (usually image) resource referenced by a
// Broadcast, Note or PhotoPicture, unique by SourceURL. LocalFilename is
// set only after the bytes are materialized under the cache directory
// (§4.6 "Attachment realization").
type Attachment struct {
	ID            int64     `db:"id"`
	SourceURL     string    `db:"source_url"`
	MimeType      string    `db:"mime_type"`
	LocalFilename string    `db:"local_filename"` // empty until materialized
	RefCount      int64     `db:"ref_count"`
	Retries       int       `db:"retries"`
	CreatedAt     time.Time `db:"created_at"`
}

const AttachmentTable = "attachments"

// Materialized reports whether the attachment's bytes have been cached
// locally.
func (a *Attachment) Materialized() bool {
	return a.LocalFilename != ""
}
