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

const likesPageSize = 20

// LikeTask backs up an account's "likes" (favorited broadcasts and
// reviews), reconciling the Favorite table per target_type so a like on a
// broadcast disappearing from the listing doesn't archive a review like
// scoped to the same user (§4.6 "LikeTask additionally reconciles the
// Favorite table per target_type").
type LikeTask struct {
	AccountID int64
}

func (t LikeTask) Name() string { return "like" }

func (t LikeTask) Owner() int64 { return t.AccountID }

func (t LikeTask) Equals(other Task) bool {
	o, ok := other.(LikeTask)
	return ok && sameAccountID(t.AccountID, o.AccountID)
}

func (t LikeTask) Run(ctx context.Context, tc *Context) error {
	owner, err := syncAccount(ctx, tc)
	if err != nil {
		return err
	}

	byTarget := map[string][]any{
		parser.FavoriteTargetBroadcast: nil,
		parser.FavoriteTargetReview:    nil,
	}

	start := 0
	for {
		rel := fmt.Sprintf("/people/%s/likes?start=%d", owner.UniqueName, start)
		resp, err := tc.Fetcher.Get(ctx, rel, "")
		if err != nil {
			return classifyFetchErr(ctx, tc, err)
		}
		if resp == nil {
			break
		}

		entries, err := parser.ParseLikesPage(resp.Body)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			break
		}

		for _, e := range entries {
			byTarget[e.TargetType] = append(byTarget[e.TargetType], &models.Favorite{
				UserID:     owner.ID,
				TargetType: e.TargetType,
				TargetID:   e.TargetDoubanID,
				CreatedAt:  e.CreatedAt,
			})
		}

		if len(entries) < likesPageSize {
			break
		}
		start += len(entries)
	}

	now := time.Now().UTC()
	for targetType, observed := range byTarget {
		if err := tc.Store.WithTx(ctx, func(tx *sql.Tx) error {
			_, err := store.ReconcileScoped(ctx, tx, store.FavoriteSpec,
				store.Scope{"user_id": owner.ID, "target_type": targetType},
				func() any { return &models.Favorite{} }, observed, now)
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}
