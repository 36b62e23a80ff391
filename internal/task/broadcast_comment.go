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

const commentsPageSize = 20

// BroadcastCommentTask walks the comment pagination of every broadcast in
// the account owner's "active" window, refreshing comments on posts still
// likely to receive new ones (§4.6).
type BroadcastCommentTask struct {
	AccountID int64
}

func (t BroadcastCommentTask) Name() string { return "broadcast_comment" }

func (t BroadcastCommentTask) Owner() int64 { return t.AccountID }

func (t BroadcastCommentTask) Equals(other Task) bool {
	o, ok := other.(BroadcastCommentTask)
	return ok && sameAccountID(t.AccountID, o.AccountID)
}

func (t BroadcastCommentTask) Run(ctx context.Context, tc *Context) error {
	owner, err := syncAccount(ctx, tc)
	if err != nil {
		return err
	}

	since := time.Now().UTC().Add(-tc.Settings.BroadcastActiveDuration)
	active, err := tc.Store.ActiveBroadcasts(ctx, owner.ID, since)
	if err != nil {
		return err
	}

	for _, b := range active {
		if err := t.scanComments(ctx, tc, b); err != nil {
			return err
		}
	}
	return nil
}

func (t BroadcastCommentTask) scanComments(ctx context.Context, tc *Context, b *models.Broadcast) error {
	start := 0
	for {
		rel := fmt.Sprintf("/status/%d/comments?start=%d", b.DoubanID, start)
		resp, err := tc.Fetcher.Get(ctx, rel, "")
		if err != nil {
			return classifyFetchErr(ctx, tc, err)
		}
		if resp == nil {
			return nil
		}

		entries, err := parser.ParseCommentsPage(resp.Body)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}

		for _, e := range entries {
			if err := t.persistComment(ctx, tc, b.DoubanID, e); err != nil {
				return err
			}
		}

		if len(entries) < commentsPageSize {
			return nil
		}
		start += len(entries)
	}
}

func (t BroadcastCommentTask) persistComment(ctx context.Context, tc *Context, targetDoubanID int64, e parser.CommentEntry) error {
	author, err := tc.Store.GetUserByUniqueName(ctx, e.AuthorUniqueName)
	if err != nil {
		return err
	}

	c := &models.Comment{
		DoubanID:       e.DoubanID,
		TargetType:     "broadcast",
		TargetDoubanID: targetDoubanID,
		AuthorUserID:   author.ID,
		Text:           e.Text,
		CreatedAt:      e.CreatedAt,
	}

	return tc.Store.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := store.Upsert(ctx, tx, store.CommentSpec, c, time.Now().UTC())
		return err
	})
}
