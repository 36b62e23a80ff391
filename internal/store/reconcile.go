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
	"time"
)

// ReconcileOutcome tallies what Reconcile did to a set-valued relation
// (§3 "snapshot reconciliation").
type ReconcileOutcome struct {
	Created   int
	Updated   int
	Unchanged int
	Removed   int
}

// Reconcile replaces the full observed membership of a set-valued
// relation scoped by scopeCol/scopeVal (the owning user_id) in one
// transaction: every row in observed is upserted via spec (stamping
// updated_at to now whether it is new, changed, or untouched), and
// everything previously scoped to scopeVal whose updated_at is still
// older than now — meaning a fresh fetch did not reobserve it — is cloned
// into spec.HistoricalTable with deleted_at=now and deleted from the
// current table.
//
// newRow must construct a fresh, zero-valued pointer of the same type as
// the elements of observed; Reconcile uses it to scan rows it did not
// itself construct (the stale set) without the caller threading a
// reflect.Type through.
func Reconcile(ctx context.Context, tx *sql.Tx, spec EntitySpec, scopeCol string, scopeVal any, newRow func() any, observed []any, now time.Time) (ReconcileOutcome, error) {
	return ReconcileScoped(ctx, tx, spec, Scope{scopeCol: scopeVal}, newRow, observed, now)
}

// Scope narrows staleness detection to the rows that share every named
// column's value, e.g. {"user_id": 7, "kind": "book"} so a book interests
// reconcile never touches the same user's movie interests (§4.6
// InterestsTask reconciles "over the union of the three statuses" but
// must not disturb other subject kinds; LikeTask reconciles "per
// target_type" for the same reason).
type Scope map[string]any

// ReconcileScoped generalizes Reconcile to a compound scope: every row in
// observed is upserted via spec, then everything previously matching scope
// whose updated_at is still older than now is archived and deleted, same
// as Reconcile.
func ReconcileScoped(ctx context.Context, tx *sql.Tx, spec EntitySpec, scope Scope, newRow func() any, observed []any, now time.Time) (ReconcileOutcome, error) {
	var outcome ReconcileOutcome

	for _, row := range observed {
		res, err := Upsert(ctx, tx, spec, row, now)
		if err != nil {
			return outcome, fmt.Errorf("reconcile %s: %w", spec.Table, err)
		}
		switch {
		case res.Created:
			outcome.Created++
		case res.Changed:
			outcome.Updated++
		default:
			outcome.Unchanged++
		}
	}

	stale, err := staleRows(ctx, tx, spec, scope, newRow, now)
	if err != nil {
		return outcome, fmt.Errorf("reconcile %s: find stale rows: %w", spec.Table, err)
	}

	for _, s := range stale {
		if spec.HistoricalTable != "" {
			if err := cloneInto(ctx, tx, spec.HistoricalTable, spec.HistoricalFKColumn, s.id, s.row, "deleted_at", now); err != nil {
				return outcome, fmt.Errorf("reconcile %s: archive stale row %d: %w", spec.Table, s.id, err)
			}
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", spec.Table), s.id); err != nil {
			return outcome, fmt.Errorf("reconcile %s: delete stale row %d: %w", spec.Table, s.id, err)
		}
		outcome.Removed++
	}

	return outcome, nil
}

type staleRow struct {
	id  int64
	row any
}

func staleRows(ctx context.Context, tx *sql.Tx, spec EntitySpec, scope Scope, newRow func() any, now time.Time) ([]staleRow, error) {
	cols, _ := toRecord(newRow())
	selectCols := append([]string{"id"}, cols...)

	where := make([]string, 0, len(scope)+1)
	args := make([]any, 0, len(scope)+1)
	for col, val := range scope {
		where = append(where, col+" = ?")
		args = append(args, toSQLValue(val))
	}
	where = append(where, "updated_at < ?")
	args = append(args, toSQLValue(now))

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s",
		strings.Join(selectCols, ", "), spec.Table, strings.Join(where, " AND "))

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stale []staleRow
	for rows.Next() {
		inst := newRow()
		if err := scanInto(inst, selectCols, rows.Scan); err != nil {
			return nil, err
		}
		idVal, _ := fieldValue(inst, "id")
		stale = append(stale, staleRow{id: idVal.(int64), row: inst})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stale, nil
}
