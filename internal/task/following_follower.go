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

// contactsPageSize is the paging stride used for following/follower/block
// listings; the loop stops once a page returns fewer entries than this.
const contactsPageSize = 20

// relationKinds is the full set reconciled by one FollowingFollowerTask run.
var relationKinds = []models.RelationKind{models.RelationFollowing, models.RelationFollower, models.RelationBlock}

// FollowingFollowerTask backs up an account's social graph: following,
// followers and block list, each reconciled as a set-valued relation, plus
// each referenced user's profile and counter sidecar (§4.6).
type FollowingFollowerTask struct {
	AccountID int64
}

func (t FollowingFollowerTask) Name() string { return "following_follower" }

func (t FollowingFollowerTask) Owner() int64 { return t.AccountID }

func (t FollowingFollowerTask) Equals(other Task) bool {
	o, ok := other.(FollowingFollowerTask)
	return ok && sameAccountID(t.AccountID, o.AccountID)
}

func (t FollowingFollowerTask) Run(ctx context.Context, tc *Context) error {
	owner, err := syncAccount(ctx, tc)
	if err != nil {
		return err
	}

	for _, kind := range relationKinds {
		if err := t.reconcileRelation(ctx, tc, owner, kind); err != nil {
			return err
		}
	}
	return nil
}

func (t FollowingFollowerTask) reconcileRelation(ctx context.Context, tc *Context, owner *models.User, kind models.RelationKind) error {
	var observed []any
	start := 0
	for {
		rel := fmt.Sprintf("/people/%s/contacts?type=%s&start=%d", owner.UniqueName, kind, start)
		resp, err := tc.Fetcher.Get(ctx, rel, "")
		if err != nil {
			return classifyFetchErr(ctx, tc, err)
		}
		if resp == nil {
			break
		}

		entries, err := parser.ParseContactsPage(resp.Body)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			break
		}

		for _, e := range entries {
			if u, err := fetchUser(ctx, tc, e.DoubanID); err != nil {
				return err
			} else if u != nil {
				if err := fetchUserExtra(ctx, tc, u); err != nil {
					tc.Logger.Warn().Err(err).Int64("douban_id", e.DoubanID).Msg("task: fetch user extra")
				}
			}

			observed = append(observed, &models.Relation{
				UserID: owner.ID,
				Name:   e.UniqueName,
			})
		}

		if len(entries) < contactsPageSize {
			break
		}
		start += len(entries)
	}

	spec := store.RelationSpec(kind)
	now := time.Now().UTC()
	return tc.Store.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := store.Reconcile(ctx, tx, spec, "user_id", owner.ID, func() any { return &models.Relation{} }, observed, now)
		return err
	})
}
