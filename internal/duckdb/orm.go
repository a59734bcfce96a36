package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/coral-mesh/symsize/internal/retry"
)

// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conflictRetry is used for writes that may race another process on the
// same database file.
var conflictRetry = retry.Config{
	MaxRetries:     10,
	InitialBackoff: 10 * time.Millisecond,
	MaxBackoff:     500 * time.Millisecond,
	Jitter:         0.1,
}

var timeType = reflect.TypeOf(time.Time{})

type column struct {
	name    string
	sqlType string
	field   int
}

// Table maps the struct type T onto a DuckDB table. Fields are bound with
// `duckdb:"name"` tags; a ",pk" option adds the column to the primary key.
type Table[T any] struct {
	db        Execer
	tableName string
	columns   []column
	pkColumns []string
}

// NewTable creates a Table[T]. It panics if T is not a struct or one of its
// tagged fields has no DuckDB equivalent.
func NewTable[T any](db Execer, tableName string) *Table[T] {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		panic("Table generic type T must be a struct")
	}

	table := &Table[T]{db: db, tableName: tableName}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("duckdb")
		if tag == "" || tag == "-" {
			continue
		}

		parts := strings.Split(tag, ",")
		name := strings.TrimSpace(parts[0])
		sqlType, ok := sqlTypeOf(field.Type)
		if !ok {
			panic(fmt.Sprintf("field %s has unsupported type %s", field.Name, field.Type))
		}
		table.columns = append(table.columns, column{name: name, sqlType: sqlType, field: i})

		for _, opt := range parts[1:] {
			if strings.TrimSpace(opt) == "pk" {
				table.pkColumns = append(table.pkColumns, name)
			}
		}
	}
	return table
}

func sqlTypeOf(t reflect.Type) (string, bool) {
	if t == timeType {
		return "TIMESTAMP", true
	}
	switch t.Kind() {
	case reflect.String:
		return "VARCHAR", true
	case reflect.Bool:
		return "BOOLEAN", true
	case reflect.Int, reflect.Int64:
		return "BIGINT", true
	case reflect.Int32:
		return "INTEGER", true
	case reflect.Uint, reflect.Uint64:
		return "UBIGINT", true
	case reflect.Uint32:
		return "UINTEGER", true
	case reflect.Float64:
		return "DOUBLE", true
	default:
		return "", false
	}
}

// Name returns the table name.
func (t *Table[T]) Name() string { return t.tableName }

// Columns returns the column names in declaration order.
func (t *Table[T]) Columns() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

// CreateTable creates the table if it does not exist.
func (t *Table[T]) CreateTable(ctx context.Context) error {
	defs := make([]string, 0, len(t.columns)+1)
	for _, c := range t.columns {
		def := c.name + " " + c.sqlType
		if t.isPK(c.name) {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}
	if len(t.pkColumns) > 0 {
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(t.pkColumns, ", ")))
	}

	// #nosec G201 -- table and column names come from struct tags.
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.tableName, strings.Join(defs, ", "))

	return retry.Do(ctx, conflictRetry, func() error {
		_, err := t.db.ExecContext(ctx, query)
		return err
	}, isTransactionConflict)
}

// upsertQuery builds INSERT ... ON CONFLICT DO UPDATE when the table has a
// primary key, a plain INSERT otherwise.
func (t *Table[T]) upsertQuery() string {
	names := t.Columns()
	placeholders := make([]string, len(names))
	updates := make([]string, 0, len(names))
	for i, name := range names {
		placeholders[i] = "?"
		if !t.isPK(name) {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", name, name))
		}
	}

	// #nosec G201 -- table and column names come from struct tags.
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.tableName,
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "),
	)

	if len(t.pkColumns) > 0 {
		action := "DO NOTHING"
		if len(updates) > 0 {
			action = "DO UPDATE SET " + strings.Join(updates, ", ")
		}
		query += fmt.Sprintf(" ON CONFLICT (%s) %s", strings.Join(t.pkColumns, ", "), action)
	}
	return query
}

// BatchUpsert writes items in a single transaction with a prepared statement.
// When the table was created on a *sql.DB the transaction is retried on
// conflicts; on a *sql.Tx the caller owns the transaction.
func (t *Table[T]) BatchUpsert(ctx context.Context, items []*T) error {
	if len(items) == 0 {
		return nil
	}
	query := t.upsertQuery()

	switch d := t.db.(type) {
	case *sql.Tx:
		return t.execBatch(ctx, d, query, items)
	case *sql.DB:
		return retry.Do(ctx, conflictRetry, func() error {
			tx, err := d.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin tx: %w", err)
			}
			if err := t.execBatch(ctx, tx, query, items); err != nil {
				_ = tx.Rollback()
				return err
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("commit: %w", err)
			}
			return nil
		}, isTransactionConflict)
	default:
		return fmt.Errorf("unsupported Execer type for BatchUpsert: %T", t.db)
	}
}

func (t *Table[T]) execBatch(ctx context.Context, tx *sql.Tx, query string, items []*T) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, t.values(item)...); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// List returns all rows matching the equality filters, ordered by orderBy
// (builder syntax, "-" for descending).
func (t *Table[T]) List(ctx context.Context, filters map[string]any, orderBy ...string) ([]*T, error) {
	qb := NewQueryBuilder(t.tableName).Select(t.Columns()...)
	for col, val := range filters {
		qb.Where(col+" = ?", val)
	}
	qb.OrderBy(orderBy...)

	query, args, err := qb.Build()
	if err != nil {
		return nil, err
	}

	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []*T
	for rows.Next() {
		item, err := t.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (t *Table[T]) values(item *T) []any {
	val := reflect.ValueOf(item).Elem()
	values := make([]any, len(t.columns))
	for i, c := range t.columns {
		values[i] = val.Field(c.field).Interface()
	}
	return values
}

func (t *Table[T]) scan(rows *sql.Rows) (*T, error) {
	var item T
	val := reflect.ValueOf(&item).Elem()
	dest := make([]any, len(t.columns))
	for i, c := range t.columns {
		dest[i] = val.Field(c.field).Addr().Interface()
	}

	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}
	return &item, nil
}

func (t *Table[T]) isPK(name string) bool {
	for _, pk := range t.pkColumns {
		if pk == name {
			return true
		}
	}
	return false
}

func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Conflict on") ||
		strings.Contains(msg, "TransactionContext Error") ||
		strings.Contains(msg, "Could not set lock on file")
}
