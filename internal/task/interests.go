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

// frodoTokenPath obtains the mobile-site auth token cookie InterestsTask
// needs before it can hit the collection APIs (§4.6 "first hit a
// mobile-site URL to obtain a frodotk token cookie"). The Fetcher's
// cookiejar merges it into the existing session automatically: it is
// scoped to its own response domain and attached by net/http's cookiejar
// to subsequent requests against that domain without any extra code here.
const frodoTokenPath = "/j/mobile/frodotk"

// interestStatuses are the three collection buckets reconciled together
// per run (§4.6 "paged API fetch for each status in {mark, doing, done}").
var interestStatuses = []string{"mark", "doing", "done"}

// interestsPageSize is the paging stride for the collection API.
const interestsPageSize = 50

// InterestsTask backs up one of the three collections (book/movie/music):
// the union of mark/doing/done entries is reconciled against the prior
// snapshot in one pass (§4.6).
type InterestsTask struct {
	AccountID int64
	Kind      models.SubjectKind
}

func (t InterestsTask) Name() string { return "interests_" + string(t.Kind) }

func (t InterestsTask) Owner() int64 { return t.AccountID }

func (t InterestsTask) Equals(other Task) bool {
	o, ok := other.(InterestsTask)
	return ok && sameAccountID(t.AccountID, o.AccountID) && t.Kind == o.Kind
}

func (t InterestsTask) Run(ctx context.Context, tc *Context) error {
	owner, err := syncAccount(ctx, tc)
	if err != nil {
		return err
	}

	if _, err := tc.Fetcher.Get(ctx, frodoTokenPath, ""); err != nil {
		return classifyFetchErr(ctx, tc, err)
	}

	var subjects, interests []any
	for _, status := range interestStatuses {
		start := 0
		for {
			rel := fmt.Sprintf("/people/%d/%ss?status=%s&start=%d", owner.DoubanID, t.Kind, status, start)
			resp, err := tc.Fetcher.Get(ctx, rel, apiBase)
			if err != nil {
				return classifyFetchErr(ctx, tc, err)
			}
			if resp == nil {
				break
			}

			results, err := parser.ParseInterestsJSON(resp.Body, t.Kind, status, owner.ID)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				break
			}

			for i := range results {
				subjects = append(subjects, &results[i].Subject)
				interests = append(interests, &results[i].Interest)
			}

			if len(results) < interestsPageSize {
				break
			}
			start += len(results)
		}
	}

	subjSpec := store.SubjectSpec(t.Kind)
	now := time.Now().UTC()

	if err := tc.Store.WithTx(ctx, func(tx *sql.Tx) error {
		for _, s := range subjects {
			if _, err := store.Upsert(ctx, tx, subjSpec, s, now); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	return tc.Store.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := store.ReconcileScoped(ctx, tx, store.InterestSpec,
			store.Scope{"user_id": owner.ID, "kind": string(t.Kind)},
			func() any { return &models.Interest{} }, interests, now)
		return err
	})
}
