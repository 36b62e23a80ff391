// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tomtom215/graveyard/internal/models"
)

// GetBySpec loads one row by its EntitySpec.UniqueCols, in the same order
// the spec declares them, scanned into a fresh instance produced by
// newRow. Tasks use this instead of one hand-written getter per entity,
// the same way Upsert replaces one setter per entity.
func (s *Store) GetBySpec(ctx context.Context, spec EntitySpec, newRow func() any, uniqueVals ...any) (any, error) {
	if len(uniqueVals) != len(spec.UniqueCols) {
		return nil, fmt.Errorf("store: GetBySpec on %s: expected %d unique values, got %d", spec.Table, len(spec.UniqueCols), len(uniqueVals))
	}

	inst := newRow()
	cols, _ := toRecord(inst)
	selectCols := append([]string{"id"}, cols...)

	where := make([]string, len(spec.UniqueCols))
	args := make([]any, len(spec.UniqueCols))
	for i, c := range spec.UniqueCols {
		where[i] = c + " = ?"
		args[i] = toSQLValue(uniqueVals[i])
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", strings.Join(selectCols, ", "), spec.Table, strings.Join(where, " AND "))
	row := s.conn.QueryRowContext(ctx, query, args...)
	if err := scanInto(inst, selectCols, row.Scan); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return inst, nil
}

// GetUserByID resolves a profile by its row primary key — the value
// accounts.user_id actually stores (BindAccountUser writes u.ID, the row
// PK, not the external douban_id). syncAccount must use this, not
// GetUserByDoubanID, to read back what it wrote.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	inst, err := s.GetBySpec(ctx, EntitySpec{Table: models.UserTable, UniqueCols: []string{"id"}},
		func() any { return &models.User{} }, id)
	if err != nil {
		return nil, err
	}
	return inst.(*models.User), nil
}

// GetUserByDoubanID resolves a profile by its numeric id, falling back to
// the anonymous sentinel (SPEC_FULL.md "Anonymous user sentinel") rather
// than erroring, since callers like reshare-author resolution treat a
// missing profile as expected, not exceptional.
func (s *Store) GetUserByDoubanID(ctx context.Context, doubanID int64) (*models.User, error) {
	inst, err := s.GetBySpec(ctx, UserSpec, func() any { return &models.User{} }, doubanID)
	if err == ErrNotFound {
		return s.anonymousUser(ctx)
	}
	if err != nil {
		return nil, err
	}
	return inst.(*models.User), nil
}

// GetUserByUniqueName resolves a profile by its unique_name natural key,
// falling back to the anonymous sentinel the same way GetUserByDoubanID
// does. Broadcast/comment scraping only ever observes an author's
// unique_name (from a profile link), never their numeric id, so this is
// the resolution path those callers use.
func (s *Store) GetUserByUniqueName(ctx context.Context, uniqueName string) (*models.User, error) {
	inst, err := s.GetBySpec(ctx, EntitySpec{Table: models.UserTable, UniqueCols: []string{"unique_name"}},
		func() any { return &models.User{} }, uniqueName)
	if err == ErrNotFound {
		return s.anonymousUser(ctx)
	}
	if err != nil {
		return nil, err
	}
	return inst.(*models.User), nil
}

func (s *Store) anonymousUser(ctx context.Context) (*models.User, error) {
	inst, err := s.GetBySpec(ctx, EntitySpec{Table: models.UserTable, UniqueCols: []string{"douban_id"}},
		func() any { return &models.User{} }, models.AnonymousUserDoubanID)
	if err == nil {
		return inst.(*models.User), nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	anon := &models.User{
		DoubanID:   models.AnonymousUserDoubanID,
		UniqueName: models.AnonymousUserUniqueName,
		Version:    1,
	}
	var out *models.User
	txErr := s.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := Upsert(ctx, tx, UserSpec, anon, nowFn())
		if err != nil {
			return err
		}
		_ = res
		out = anon
		return nil
	})
	return out, txErr
}
