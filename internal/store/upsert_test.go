// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/graveyard/internal/config"
	"github.com/tomtom215/graveyard/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(config.StoreConfig{
		DatabasePath: filepath.Join(t.TempDir(), "graveyard.db"),
		CacheDir:     t.TempDir(),
		BusyTimeout:  5 * time.Second,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func upsertUser(t *testing.T, st *Store, u *models.User, now time.Time) UpsertOutcome {
	t.Helper()
	var outcome UpsertOutcome
	err := st.WithTx(context.Background(), func(tx *sql.Tx) error {
		var err error
		outcome, err = Upsert(context.Background(), tx, UserSpec, u, now)
		return err
	})
	require.NoError(t, err)
	return outcome
}

// TestUpsert_CreateThenIdempotentRefetch covers §8 "Idempotence of
// upsert": applying the same fetched record twice produces no history row
// on the second call and version does not change.
func TestUpsert_CreateThenIdempotentRefetch(t *testing.T) {
	st := newTestStore(t)
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	u := &models.User{DoubanID: 1, UniqueName: "alice", Name: "Alice", Signature: "hi"}
	outcome := upsertUser(t, st, u, t1)
	assert.True(t, outcome.Created)
	assert.Equal(t, int64(1), u.Version)

	t2 := t1.Add(time.Hour)
	u2 := &models.User{DoubanID: 1, UniqueName: "alice", Name: "Alice", Signature: "hi"}
	outcome2 := upsertUser(t, st, u2, t2)
	assert.False(t, outcome2.Created)
	assert.False(t, outcome2.Changed)

	row := st.Conn().QueryRow(`SELECT version FROM users WHERE douban_id = 1`)
	var version int64
	require.NoError(t, row.Scan(&version))
	assert.Equal(t, int64(1), version)

	var count int
	require.NoError(t, st.Conn().QueryRow(`SELECT count(*) FROM users_historical`).Scan(&count))
	assert.Zero(t, count)
}

// TestUpsert_ChangeBumpsVersionAndArchives covers §8 "Monotone versioning"
// and scenario 4 of spec.md §8: a changed compared attribute clones the
// prior state into history and bumps version.
func TestUpsert_ChangeBumpsVersionAndArchives(t *testing.T) {
	st := newTestStore(t)
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	u := &models.User{DoubanID: 1, UniqueName: "alice", Name: "Alice", Signature: "old sig"}
	upsertUser(t, st, u, t1)

	t2 := t1.Add(time.Hour)
	u2 := &models.User{DoubanID: 1, UniqueName: "alice", Name: "Alice", Signature: "new sig"}
	outcome := upsertUser(t, st, u2, t2)
	assert.True(t, outcome.Changed)
	assert.Equal(t, u.ID, u2.ID)

	var version int64
	require.NoError(t, st.Conn().QueryRow(`SELECT version FROM users WHERE id = ?`, u2.ID).Scan(&version))
	assert.Equal(t, int64(2), version)

	var historicalCount int
	var archivedSignature string
	var archivedUserID int64
	require.NoError(t, st.Conn().QueryRow(`SELECT count(*) FROM users_historical WHERE user_id = ?`, u2.ID).Scan(&historicalCount))
	assert.Equal(t, 1, historicalCount)
	require.NoError(t, st.Conn().QueryRow(`SELECT signature, user_id FROM users_historical WHERE user_id = ?`, u2.ID).Scan(&archivedSignature, &archivedUserID))
	assert.Equal(t, "old sig", archivedSignature)
	assert.Equal(t, u2.ID, archivedUserID)
}

// TestUpsert_MissingUniqueConflictResolvesToExistingRow ensures that a
// second insert racing on the unique natural key lands on the update
// branch rather than erroring out of the caller.
func TestUpsert_IntegrityViolationRoutesToUpdateBranch(t *testing.T) {
	st := newTestStore(t)
	now := time.Now().UTC()

	u := &models.User{DoubanID: 42, UniqueName: "bob", Name: "Bob"}
	upsertUser(t, st, u, now)

	dup := &models.User{DoubanID: 42, UniqueName: "bob", Name: "Bob Renamed"}
	outcome := upsertUser(t, st, dup, now.Add(time.Minute))
	assert.False(t, outcome.Created)
	assert.True(t, outcome.Changed)
	assert.Equal(t, u.ID, dup.ID)
}

// TestUpsert_InterestChangeArchivesWithDeletedAt covers §4.6: "otherwise
// the current row is archived with deleted_at=now before replacement" —
// an Interest has no version column (ArchiveOnChange without Versioned),
// but a rating/tags/comment/status edit must still clone the prior row
// into interests_historical before applying the new values.
func TestUpsert_InterestChangeArchivesWithDeletedAt(t *testing.T) {
	st := newTestStore(t)
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	upsertInterest := func(i *models.Interest, now time.Time) UpsertOutcome {
		var outcome UpsertOutcome
		err := st.WithTx(context.Background(), func(tx *sql.Tx) error {
			var err error
			outcome, err = Upsert(context.Background(), tx, InterestSpec, i, now)
			return err
		})
		require.NoError(t, err)
		return outcome
	}

	i := &models.Interest{UserID: 1, Kind: "book", SubjectID: 7, Status: "doing", Rating: 0, CreateTime: t1}
	outcome := upsertInterest(i, t1)
	require.True(t, outcome.Created)

	t2 := t1.Add(time.Hour)
	edit := &models.Interest{UserID: 1, Kind: "book", SubjectID: 7, Status: "done", Rating: 5, CreateTime: t1}
	outcome = upsertInterest(edit, t2)
	assert.True(t, outcome.Changed)
	assert.Equal(t, i.ID, edit.ID)

	var historicalCount int
	require.NoError(t, st.Conn().QueryRow(`SELECT count(*) FROM interests_historical WHERE interest_id = ?`, edit.ID).Scan(&historicalCount))
	assert.Equal(t, 1, historicalCount)

	var archivedStatus, deletedAtRaw string
	require.NoError(t, st.Conn().QueryRow(`SELECT status, deleted_at FROM interests_historical WHERE interest_id = ?`, edit.ID).Scan(&archivedStatus, &deletedAtRaw))
	assert.Equal(t, "doing", archivedStatus)
	deletedAt, err := time.Parse(time.RFC3339Nano, deletedAtRaw)
	require.NoError(t, err)
	assert.True(t, deletedAt.Equal(t2))

	var currentStatus string
	require.NoError(t, st.Conn().QueryRow(`SELECT status FROM interests WHERE id = ?`, edit.ID).Scan(&currentStatus))
	assert.Equal(t, "done", currentStatus)
}
