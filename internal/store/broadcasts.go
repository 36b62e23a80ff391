// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/graveyard/internal/models"
)

var broadcastColumns = []string{
	"id", "douban_id", "author_user_id", "kind", "text", "attachments",
	"reshare_of_douban_id", "reshared_count", "like_count", "comments_count",
	"created_at", "version", "updated_at",
}

// ActiveBroadcasts returns every broadcast authored by authorUserID whose
// CreatedAt falls within the "active" window BroadcastCommentTask scans
// for fresh comments (§4.6 "scan broadcasts with created within an
// active window (broadcast_active_duration)").
func (s *Store) ActiveBroadcasts(ctx context.Context, authorUserID int64, sinceInclusive time.Time) ([]*models.Broadcast, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE author_user_id = ? AND created_at >= ? ORDER BY created_at DESC",
		joinCols(broadcastColumns), models.BroadcastTable)

	rows, err := s.conn.QueryContext(ctx, query, authorUserID, toSQLValue(sinceInclusive))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Broadcast
	for rows.Next() {
		b := &models.Broadcast{}
		if err := scanInto(b, broadcastColumns, rows.Scan); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
