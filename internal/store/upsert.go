// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package store

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// EntitySpec describes one entity's place in the upsert protocol (§4.4):
// its table, its historical table (empty if attribute changes are never
// archived), the foreign key column the historical table uses to point
// back at the current row, the columns that make a row unique, and the
// subset of columns whose difference constitutes a "change" worth acting
// on.
//
// Versioned and ArchiveOnChange are independent: Versioned controls
// whether applyUpdate increments a version column, ArchiveOnChange
// controls whether a compared-attribute change clones the prior row into
// HistoricalTable first. Every versioned entity (User, Book/Movie/Music,
// Note, PhotoAlbum/PhotoPicture, Broadcast, Comment) sets both. Interest
// has no version column but §4.6 still requires "the current row is
// archived with deleted_at=now before replacement" on a rating/tags/
// comment/status edit, so InterestSpec sets ArchiveOnChange without
// Versioned.
type EntitySpec struct {
	Table              string
	HistoricalTable    string
	HistoricalFKColumn string
	UniqueCols         []string
	ComparedAttrs      []string
	Versioned          bool
	ArchiveOnChange    bool

	// ArchiveTimeColumn names the historical table's timestamp column
	// stamped when a compared-attribute change clones a row. Empty means
	// "archived_at", the versioned entities' column; Interest overrides
	// this to "deleted_at" since its historical table has no separate
	// archived_at column (§4.6).
	ArchiveTimeColumn string
}

// UpsertOutcome reports what Upsert actually did, so callers (tasks) can
// decide things like the incremental-backup stop condition (§4.6
// BroadcastTask: stop once enough consecutive upserts are unchanged).
type UpsertOutcome struct {
	Created bool
	Changed bool
	ID      int64
}

// Upsert runs the generic safeCreate -> conflict -> compare -> clone +
// safeUpdate sequence of §4.4 against row, whose concrete type is one of
// the current-table structs in internal/models. row must be a pointer;
// its id field is populated with the row's primary key on return.
//
//   - safeCreate: try INSERT. Success means this is a brand-new row.
//   - On a unique-constraint conflict, load the existing row by
//     spec.UniqueCols.
//   - If every compared attribute already matches, this is just a
//     refetch of something unchanged: touch updated_at and stop.
//   - Otherwise, clone the existing row into its historical table before
//     applying the new values whenever the entity is versioned or opts
//     into ArchiveOnChange, so the prior state survives. Versioned
//     entities additionally move from version N to N+1; Interest
//     (ArchiveOnChange, not Versioned) archives the prior rating/tags/
//     comment/status with no version column to bump. Favorite and
//     Relation set neither: they have no per-attribute change to detect
//     (ComparedAttrs is empty), so their full-row history is written only
//     by Reconcile when they later disappear from a snapshot entirely.
func Upsert(ctx context.Context, tx *sql.Tx, spec EntitySpec, row any, now time.Time) (UpsertOutcome, error) {
	cols, vals := toRecord(row)

	id, err := insertRow(ctx, tx, spec.Table, cols, vals)
	if err == nil {
		setID(row, id)
		return UpsertOutcome{Created: true, ID: id}, nil
	}
	if !isIntegrityViolation(err) {
		return UpsertOutcome{}, fmt.Errorf("insert into %s: %w", spec.Table, err)
	}

	existingID, existing, err := loadExisting(ctx, tx, spec, row, cols)
	if err != nil {
		return UpsertOutcome{}, fmt.Errorf("load existing row in %s: %w", spec.Table, err)
	}
	setID(row, existingID)

	if len(spec.ComparedAttrs) == 0 || equalsOn(existing, row, spec.ComparedAttrs) {
		if err := touchUpdatedAt(ctx, tx, spec.Table, existingID, now); err != nil {
			return UpsertOutcome{}, fmt.Errorf("touch %s: %w", spec.Table, err)
		}
		return UpsertOutcome{Created: false, Changed: false, ID: existingID}, nil
	}

	if spec.Versioned || spec.ArchiveOnChange {
		if err := cloneHistorical(ctx, tx, spec, existingID, existing, now); err != nil {
			return UpsertOutcome{}, fmt.Errorf("clone %s into %s: %w", spec.Table, spec.HistoricalTable, err)
		}
	}

	if err := applyUpdate(ctx, tx, spec, existingID, cols, vals, now); err != nil {
		return UpsertOutcome{}, fmt.Errorf("update %s: %w", spec.Table, err)
	}

	return UpsertOutcome{Created: false, Changed: true, ID: existingID}, nil
}

func insertRow(ctx context.Context, tx *sql.Tx, table string, cols []string, vals []any) (int64, error) {
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), placeholdersFor(len(cols)))
	res, err := tx.ExecContext(ctx, query, vals...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// loadExisting fetches the row that collided with row's insert attempt,
// scanned into a fresh instance of row's own type so equalsOn and
// cloneHistorical can read it generically.
func loadExisting(ctx context.Context, tx *sql.Tx, spec EntitySpec, row any, cols []string) (int64, any, error) {
	where := make([]string, len(spec.UniqueCols))
	args := make([]any, len(spec.UniqueCols))
	for i, c := range spec.UniqueCols {
		v, ok := fieldValue(row, c)
		if !ok {
			return 0, nil, fmt.Errorf("unique column %q not present on %T", c, row)
		}
		where[i] = c + " = ?"
		args[i] = toSQLValue(v)
	}

	selectCols := append([]string{"id"}, cols...)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", strings.Join(selectCols, ", "), spec.Table, strings.Join(where, " AND "))

	existing := reflect.New(reflect.TypeOf(row).Elem()).Interface()
	dbRow := tx.QueryRowContext(ctx, query, args...)
	if err := scanInto(existing, selectCols, dbRow.Scan); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil, fmt.Errorf("%w: %s", ErrNotFound, spec.Table)
		}
		return 0, nil, err
	}

	id, _ := fieldValue(existing, "id")
	return id.(int64), existing, nil
}

func equalsOn(existing, fresh any, attrs []string) bool {
	for _, attr := range attrs {
		ve, _ := fieldValue(existing, attr)
		vf, _ := fieldValue(fresh, attr)
		if !valuesEqual(ve, vf) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Equal(tb)
		}
	}
	return reflect.DeepEqual(a, b)
}

func touchUpdatedAt(ctx context.Context, tx *sql.Tx, table string, id int64, now time.Time) error {
	_, err := tx.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET updated_at = ? WHERE id = ?", table), toSQLValue(now), id)
	return err
}

func cloneHistorical(ctx context.Context, tx *sql.Tx, spec EntitySpec, existingID int64, existing any, now time.Time) error {
	col := spec.ArchiveTimeColumn
	if col == "" {
		col = "archived_at"
	}
	return cloneInto(ctx, tx, spec.HistoricalTable, spec.HistoricalFKColumn, existingID, existing, col, now)
}

// cloneInto writes existing's non-id, non-updated_at columns into a
// historical table under timeCol (archived_at for an in-place change,
// deleted_at for a reconciliation removal) alongside the fk column that
// points back at the current row's id. Every historical table replaces
// updated_at with exactly one of those two columns, never both.
func cloneInto(ctx context.Context, tx *sql.Tx, table, fkColumn string, id int64, row any, timeCol string, now time.Time) error {
	cols, vals := toRecord(row)
	filtered := make([]string, 0, len(cols)+2)
	filteredVals := make([]any, 0, len(vals)+2)
	for i, c := range cols {
		if c == "updated_at" {
			continue
		}
		filtered = append(filtered, c)
		filteredVals = append(filteredVals, vals[i])
	}

	filtered = append([]string{fkColumn}, filtered...)
	filteredVals = append([]any{id}, filteredVals...)
	filtered = append(filtered, timeCol)
	filteredVals = append(filteredVals, toSQLValue(now))

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(filtered, ", "), placeholdersFor(len(filtered)))
	_, err := tx.ExecContext(ctx, query, filteredVals...)
	return err
}

func applyUpdate(ctx context.Context, tx *sql.Tx, spec EntitySpec, existingID int64, cols []string, vals []any, now time.Time) error {
	setClauses := make([]string, 0, len(cols)+2)
	args := make([]any, 0, len(cols)+2)

	for i, c := range cols {
		if c == "updated_at" || c == "version" {
			continue
		}
		setClauses = append(setClauses, c+" = ?")
		args = append(args, vals[i])
	}

	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, toSQLValue(now))
	if spec.Versioned {
		setClauses = append(setClauses, "version = version + 1")
	}
	args = append(args, existingID)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", spec.Table, strings.Join(setClauses, ", "))
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

func placeholdersFor(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = "?"
	}
	return strings.Join(ph, ", ")
}
