// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package task

import (
	"context"
	"fmt"

	"github.com/tomtom215/graveyard/internal/parser"
)

const notesPageSize = 20

// NoteTask backs up the account owner's long-form notes: a paged listing
// followed by a per-item fetch-or-refresh through fetchNote (§4.6).
type NoteTask struct {
	AccountID int64
}

func (t NoteTask) Name() string { return "note" }

func (t NoteTask) Owner() int64 { return t.AccountID }

func (t NoteTask) Equals(other Task) bool {
	o, ok := other.(NoteTask)
	return ok && sameAccountID(t.AccountID, o.AccountID)
}

func (t NoteTask) Run(ctx context.Context, tc *Context) error {
	owner, err := syncAccount(ctx, tc)
	if err != nil {
		return err
	}

	start := 0
	for {
		rel := fmt.Sprintf("/people/%s/notes?start=%d", owner.UniqueName, start)
		resp, err := tc.Fetcher.Get(ctx, rel, "")
		if err != nil {
			return classifyFetchErr(ctx, tc, err)
		}
		if resp == nil {
			break
		}

		entries, err := parser.ParseNotesListPage(resp.Body)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			break
		}

		for _, e := range entries {
			if _, err := fetchNote(ctx, tc, e.DoubanID, e.URL, owner.ID); err != nil {
				return err
			}
		}

		if len(entries) < notesPageSize {
			break
		}
		start += len(entries)
	}

	return realizeAttachments(ctx, tc, tc.CacheDir)
}
