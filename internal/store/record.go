// graveyard - personal archive crawler
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/graveyard

package store

import (
	"database/sql"
	"fmt"
	"reflect"
	"time"
)

// toRecord flattens a model struct into an ordered column/value list using
// its `db` struct tags, skipping "id" (the autoincrement primary key).
// Every model in internal/models follows this convention, so one reflector
// serves every entity the upsert protocol touches.
func toRecord(v any) (cols []string, vals []any) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("db")
		if tag == "" || tag == "id" {
			continue
		}
		cols = append(cols, tag)
		vals = append(vals, toSQLValue(rv.Field(i).Interface()))
	}
	return cols, vals
}

// fieldValue reads one field of v by its `db` tag.
func fieldValue(v any, column string) (any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		if rt.Field(i).Tag.Get("db") == column {
			return rv.Field(i).Interface(), true
		}
	}
	return nil, false
}

// setID writes the store-assigned row id back into v's "id"-tagged field.
func setID(v any, id int64) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr {
		return
	}
	rv = rv.Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		if rt.Field(i).Tag.Get("db") == "id" {
			rv.Field(i).SetInt(id)
			return
		}
	}
}

// toSQLValue converts the handful of Go types the model package uses into
// values SQLite's dynamic typing accepts. time.Time is stored as an RFC3339
// string so query results are human-readable directly from the sqlite3
// CLI, rather than relying on driver-specific time handling.
func toSQLValue(v any) any {
	switch val := v.(type) {
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	case bool:
		if val {
			return 1
		}
		return 0
	default:
		return val
	}
}

// scanInto populates dst (a pointer to a model struct) from one *sql.Row
// or *sql.Rows whose selected columns are exactly cols, in order.
func scanInto(dst any, cols []string, scan func(...any) error) error {
	rv := reflect.ValueOf(dst).Elem()
	rt := rv.Type()

	targets := make([]any, len(cols))
	for i, col := range cols {
		f := fieldByTag(rt, col)
		if !f.IsValid() {
			var ignore any
			targets[i] = &ignore
			continue
		}
		field := rv.FieldByIndex(f.Index)
		switch field.Interface().(type) {
		case time.Time:
			targets[i] = &timeScanner{field: field}
		case bool:
			targets[i] = &boolScanner{field: field}
		default:
			targets[i] = field.Addr().Interface()
		}
	}

	if err := scan(targets...); err != nil {
		return err
	}
	return nil
}

func fieldByTag(rt reflect.Type, tag string) reflect.StructField {
	for i := 0; i < rt.NumField(); i++ {
		if rt.Field(i).Tag.Get("db") == tag {
			return rt.Field(i)
		}
	}
	return reflect.StructField{}
}

// timeScanner adapts database/sql's Scan into a time.Time struct field,
// accepting the RFC3339 strings toSQLValue writes as well as whatever a
// driver-native time.Time scan produces.
type timeScanner struct {
	field reflect.Value
}

func (t *timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case time.Time:
		t.field.Set(reflect.ValueOf(v))
		return nil
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, v)
			if err != nil {
				return fmt.Errorf("scan time column: %w", err)
			}
		}
		t.field.Set(reflect.ValueOf(parsed.UTC()))
		return nil
	case []byte:
		return t.Scan(string(v))
	default:
		return fmt.Errorf("scan time column: unsupported type %T", src)
	}
}

// boolScanner adapts SQLite's 0/1 INTEGER storage back into a bool field.
type boolScanner struct {
	field reflect.Value
}

func (b *boolScanner) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case int64:
		b.field.SetBool(v != 0)
	case bool:
		b.field.SetBool(v)
	default:
		return fmt.Errorf("scan bool column: unsupported type %T", src)
	}
	return nil
}

var _ sql.Scanner = (*timeScanner)(nil)
var _ sql.Scanner = (*boolScanner)(nil)
