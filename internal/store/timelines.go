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

// InsertTimelineIfMissing links broadcastID into userID's chronological
// feed (§3 Timeline "unique (user, broadcast)"). A Broadcast is shared
// across users, so re-observing the same broadcast on a later backup run
// is expected and a no-op here, not a conflict worth reporting.
func InsertTimelineIfMissing(ctx context.Context, tx *sql.Tx, userID, broadcastID int64, createdAt time.Time) error {
	_, err := tx.ExecContext(ctx,
		fmt.Sprintf("INSERT OR IGNORE INTO %s (user_id, broadcast_id, created_at) VALUES (?, ?, ?)", models.TimelineTable),
		userID, broadcastID, toSQLValue(createdAt))
	return err
}
