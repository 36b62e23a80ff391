// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package task

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/graveyard/internal/models"
	"github.com/tomtom215/graveyard/internal/parser"
	"github.com/tomtom215/graveyard/internal/store"
)

const broadcastsPageSize = 20

// incrementalStopThreshold is the conflict_count the incremental-backup
// heuristic stops at (§4.6 "stop when conflict_count >= 10").
const incrementalStopThreshold = 10

// BroadcastTask backs up the account owner's status stream (§4.6).
type BroadcastTask struct {
	AccountID int64
}

func (t BroadcastTask) Name() string { return "broadcast" }

func (t BroadcastTask) Owner() int64 { return t.AccountID }

func (t BroadcastTask) Equals(other Task) bool {
	o, ok := other.(BroadcastTask)
	return ok && sameAccountID(t.AccountID, o.AccountID)
}

func (t BroadcastTask) Run(ctx context.Context, tc *Context) error {
	owner, err := syncAccount(ctx, tc)
	if err != nil {
		return err
	}

	conflictCount := 0
	start := 0
	for {
		rel := fmt.Sprintf("/people/%s/statuses?start=%d", owner.UniqueName, start)
		resp, err := tc.Fetcher.Get(ctx, rel, "")
		if err != nil {
			return classifyFetchErr(ctx, tc, err)
		}
		if resp == nil {
			break
		}

		entries, err := parser.ParseBroadcastPage(resp.Body)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			break
		}

		for _, entry := range entries {
			existed, err := t.persistEntry(ctx, tc, owner, entry)
			if err != nil {
				return err
			}

			if tc.Settings.BroadcastIncremental {
				if existed {
					conflictCount++
				} else {
					conflictCount = 0
				}
				if conflictCount >= incrementalStopThreshold {
					return nil
				}
			}
		}

		if len(entries) < broadcastsPageSize {
			break
		}
		start += len(entries)
	}
	return nil
}

// persistEntry upserts entry, recursing into its reshare target first so
// the outer record can reference an already-persisted row (§4.6 "if it is
// a reshare, parse the inner status too and persist it first"), links it
// into owner's Timeline, and registers any saying-type attachments. It
// reports whether the outer broadcast already existed, which drives the
// incremental-backup stop condition.
func (t BroadcastTask) persistEntry(ctx context.Context, tc *Context, owner *models.User, entry parser.BroadcastEntry) (bool, error) {
	if entry.InnerEntry != nil {
		if _, err := t.persistEntry(ctx, tc, owner, *entry.InnerEntry); err != nil {
			return false, err
		}
	}

	author, err := tc.Store.GetUserByUniqueName(ctx, entry.AuthorUniqueName)
	if err != nil {
		return false, err
	}

	b := &models.Broadcast{
		DoubanID:          entry.DoubanID,
		AuthorUserID:      author.ID,
		Kind:              string(entry.Kind),
		Text:              entry.Text,
		Attachments:       joinJSONStrings(entry.AttachmentURLs),
		ReshareOfDoubanID: entry.ReshareOfDoubanID,
		ResharedCount:     entry.ResharedCount,
		LikeCount:         entry.LikeCount,
		CommentsCount:     entry.CommentsCount,
		CreatedAt:         entry.CreatedAt,
	}

	now := time.Now().UTC()
	var outcome store.UpsertOutcome
	if err := tc.Store.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		outcome, err = store.Upsert(ctx, tx, store.BroadcastSpec, b, now)
		if err != nil {
			return err
		}
		return store.InsertTimelineIfMissing(ctx, tx, owner.ID, b.ID, entry.CreatedAt)
	}); err != nil {
		return false, err
	}

	for _, u := range entry.AttachmentURLs {
		if _, err := tc.Store.GetOrCreateAttachment(ctx, u); err != nil {
			tc.Logger.Warn().Err(err).Str("url", u).Msg("task: register broadcast attachment")
		}
	}

	return !outcome.Created, nil
}
