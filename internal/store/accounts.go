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

// accountColumns lists the columns selected by every account query, in the
// order scanInto expects.
var accountColumns = []string{"id", "name", "user_id", "session_cookie", "is_activated", "is_invalid", "created_at", "updated_at"}

// CreateAccount inserts a new Account. Unlike the fetched entities in
// specs.go, accounts are operator-managed (created through the CLI/UI, not
// observed from the archived site), so they go through a direct INSERT
// rather than the generic conflict-driven Upsert.
func (s *Store) CreateAccount(ctx context.Context, a *models.Account) error {
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now

	if s.enc != nil && a.SessionCookie != "" {
		plaintext := a.SessionCookie
		ciphertext, err := s.enc.Encrypt(plaintext)
		if err != nil {
			return fmt.Errorf("create account: encrypt session cookie: %w", err)
		}
		a.SessionCookie = ciphertext
		defer func() { a.SessionCookie = plaintext }()
	}

	return s.WithTx(ctx, func(tx *sql.Tx) error {
		cols, vals := toRecord(a)
		id, err := insertRow(ctx, tx, models.AccountTable, cols, vals)
		if err != nil {
			return fmt.Errorf("create account: %w", err)
		}
		setID(a, id)
		return nil
	})
}

// decryptSessionCookie reverses the encryption CreateAccount applied, so
// every reader sees the plaintext cookie regardless of how it was stored.
func (s *Store) decryptSessionCookie(a *models.Account) error {
	if s.enc == nil || a.SessionCookie == "" {
		return nil
	}
	plaintext, err := s.enc.Decrypt(a.SessionCookie)
	if err != nil {
		return fmt.Errorf("decrypt session cookie for account %d: %w", a.ID, err)
	}
	a.SessionCookie = plaintext
	return nil
}

// GetAccount loads one account by id.
func (s *Store) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	a := &models.Account{}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", joinCols(accountColumns), models.AccountTable)
	row := s.conn.QueryRowContext(ctx, query, id)
	if err := scanInto(a, accountColumns, row.Scan); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.decryptSessionCookie(a); err != nil {
		return nil, err
	}
	return a, nil
}

// ListAccounts returns every configured account, in creation order.
func (s *Store) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", joinCols(accountColumns), models.AccountTable)
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Account
	for rows.Next() {
		a := &models.Account{}
		if err := scanInto(a, accountColumns, rows.Scan); err != nil {
			return nil, err
		}
		if err := s.decryptSessionCookie(a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ActivatedAccounts returns every account eligible to build a worker fleet
// from (§4.8, §6: "workers are built from every activated account").
func (s *Store) ActivatedAccounts(ctx context.Context) ([]*models.Account, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE is_activated = 1 AND is_invalid = 0 ORDER BY id", joinCols(accountColumns), models.AccountTable)
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Account
	for rows.Next() {
		a := &models.Account{}
		if err := scanInto(a, accountColumns, rows.Scan); err != nil {
			return nil, err
		}
		if err := s.decryptSessionCookie(a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// MarkAccountInvalid flags an account whose session cookie the fetcher
// found redirected to the login wall (§4.2 "forbidden detection"). An
// invalid account is excluded from future worker fleets until an operator
// supplies a fresh cookie.
func (s *Store) MarkAccountInvalid(ctx context.Context, id int64) error {
	_, err := s.conn.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET is_invalid = 1, updated_at = ? WHERE id = ?", models.AccountTable),
		toSQLValue(time.Now().UTC()), id)
	return err
}

// BindAccountUser records the profile a session cookie resolved to on
// first successful fetch. userID is the User row's primary key (users.id),
// not its external douban_id — syncAccount reads it back with
// GetUserByID, not GetUserByDoubanID, so the write and the read agree.
func (s *Store) BindAccountUser(ctx context.Context, accountID, userID int64) error {
	_, err := s.conn.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET user_id = ?, updated_at = ? WHERE id = ?", models.AccountTable),
		userID, toSQLValue(time.Now().UTC()), accountID)
	return err
}

func joinCols(cols []string) string {
	out := cols[0]
	for _, c := range cols[1:] {
		out += ", " + c
	}
	return out
}
