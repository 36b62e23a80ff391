// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/graveyard/internal/models"
)

var attachmentColumns = []string{"id", "source_url", "mime_type", "local_filename", "ref_count", "retries", "created_at"}

// GetOrCreateAttachment finds the Attachment row for sourceURL, or creates
// one with RefCount 1 if none exists yet. Every caller that references the
// same source URL again (a reshared broadcast's image, say) increments the
// ref count instead of materializing the bytes twice (§4.6 "Attachment
// realization").
func (s *Store) GetOrCreateAttachment(ctx context.Context, sourceURL string) (*models.Attachment, error) {
	var out *models.Attachment
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		a := &models.Attachment{}
		query := fmt.Sprintf("SELECT %s FROM %s WHERE source_url = ?", joinCols(attachmentColumns), models.AttachmentTable)
		row := tx.QueryRowContext(ctx, query, sourceURL)
		err := scanInto(a, attachmentColumns, row.Scan)
		switch {
		case err == nil:
			if _, err := tx.ExecContext(ctx,
				fmt.Sprintf("UPDATE %s SET ref_count = ref_count + 1 WHERE id = ?", models.AttachmentTable), a.ID); err != nil {
				return err
			}
			a.RefCount++
			out = a
			return nil
		case err == sql.ErrNoRows:
			a.SourceURL = sourceURL
			a.RefCount = 1
			a.CreatedAt = time.Now().UTC()
			cols, vals := toRecord(a)
			id, err := insertRow(ctx, tx, models.AttachmentTable, cols, vals)
			if err != nil {
				return fmt.Errorf("create attachment: %w", err)
			}
			setID(a, id)
			out = a
			return nil
		default:
			return err
		}
	})
	return out, err
}

// MarkAttachmentMaterialized records the cache-relative filename and MIME
// type once the fetcher has written the bytes to disk.
func (s *Store) MarkAttachmentMaterialized(ctx context.Context, id int64, localFilename, mimeType string) error {
	_, err := s.conn.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET local_filename = ?, mime_type = ? WHERE id = ?", models.AttachmentTable),
		localFilename, mimeType, id)
	return err
}

// NextUnmaterializedAttachment returns one Attachment row whose bytes have
// not yet been cached to disk (§4.6 "Attachment realization": "picks any
// attachment row with local==null"), or ErrNotFound once none remain. Order
// is unspecified beyond id ascending, which is sufficient for the
// loop-until-false realization routine.
func (s *Store) NextUnmaterializedAttachment(ctx context.Context) (*models.Attachment, error) {
	a := &models.Attachment{}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE local_filename = '' ORDER BY id LIMIT 1", joinCols(attachmentColumns), models.AttachmentTable)
	row := s.conn.QueryRowContext(ctx, query)
	if err := scanInto(a, attachmentColumns, row.Scan); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// RecordAttachmentRetry bumps the retry counter that feeds the
// content-addressed cache path (md5(retries|url)); a later retry after a
// transient fetch failure lands at a different path than an earlier one,
// rather than silently overwriting a partially-written file.
func (s *Store) RecordAttachmentRetry(ctx context.Context, id int64) (int, error) {
	var retries int
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET retries = retries + 1 WHERE id = ?", models.AttachmentTable), id); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, fmt.Sprintf("SELECT retries FROM %s WHERE id = ?", models.AttachmentTable), id).Scan(&retries)
	})
	return retries, err
}
