// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tomtom215/graveyard/internal/config"
	"github.com/tomtom215/graveyard/internal/logging"
)

// Store wraps the SQLite connection used by every other package to read
// and write the backed-up archive.
type Store struct {
	conn *sql.DB
	cfg  config.StoreConfig
	enc  *config.CredentialEncryptor
}

// Open creates the parent directory for the database file if needed, opens
// a modernc.org/sqlite connection with the configured busy timeout, and
// ensures the schema exists. Concurrent workers (§4.7, one OS-process-like
// worker per account/proxy) write to the same file; SQLite's busy_timeout
// pragma makes a writer block-and-retry instead of failing immediately
// when another connection holds the write lock, which is why this store
// replaced the teacher's DuckDB backend (DuckDB's single-writer model
// cannot serve more than one live connection at a time — see DESIGN.md).
//
// enc, if non-nil, is used to encrypt/decrypt Account.SessionCookie at
// rest; a nil enc (e.g. in tests) leaves the cookie in plaintext.
func Open(cfg config.StoreConfig, enc *config.CredentialEncryptor) (*Store, error) {
	dbDir := filepath.Dir(cfg.DatabasePath)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("store: create database directory %s: %w", dbDir, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)&_pragma=journal_mode(wal)",
		cfg.DatabasePath, cfg.BusyTimeout.Milliseconds())

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// A single writer connection avoids SQLITE_BUSY storms between
	// goroutines sharing one *sql.DB; readers still fan out across the
	// pool. Workers are independent processes conceptually but share this
	// one embedded file.
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	s := &Store{conn: conn, cfg: cfg, enc: enc}

	if err := s.ensureSchema(context.Background()); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("store: ensure schema: %w", err)
	}

	logging.Info().Str("path", cfg.DatabasePath).Msg("store opened")
	return s, nil
}

// Conn returns the underlying *sql.DB for packages that need direct access
// (internal/store subpackages only; callers outside store should go
// through the typed helpers).
func (s *Store) Conn() *sql.DB {
	return s.conn
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on any error (including a panic, which is re-raised after
// rollback).
func (s *Store) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w: %v (rollback: %v)", ErrTxnAborted, err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit tx: %w", err)
	}
	return nil
}

// nowFn is the store package's single source of "now", overridable by
// tests that need deterministic timestamps.
var nowFn = func() time.Time { return time.Now().UTC() }

func closeQuietly(c interface{ Close() error }) {
	if c != nil {
		_ = c.Close()
	}
}

// schemaTimeout bounds the one-shot CREATE TABLE pass the same way the
// teacher bounds its own schema setup.
const schemaTimeout = 60 * time.Second
