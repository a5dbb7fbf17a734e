// Package sqldb holds the SQL shared by every relational driver. Queries are
// written with '?' placeholders and rebound by the driver's Dialect.
package sqldb

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Dialect captures what differs between database engines.
type Dialect interface {
	// Rebind rewrites '?' placeholders into the engine's syntax.
	Rebind(query string) string
	// IsUniqueViolation reports whether err is a unique constraint failure.
	IsUniqueViolation(err error) bool
}

// QuestionRebind leaves '?' placeholders untouched.
func QuestionRebind(query string) string { return query }

// DollarRebind rewrites '?' placeholders into $1, $2, ... in order.
func DollarRebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type queries struct {
	db DBTX
	d  Dialect
}

func newQueries(db DBTX, d Dialect) *queries {
	return &queries{db: db, d: d}
}

func (q *queries) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return q.db.ExecContext(ctx, q.d.Rebind(query), args...)
}

func (q *queries) execRows(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := q.exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *queries) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return q.db.QueryContext(ctx, q.d.Rebind(query), args...)
}

func (q *queries) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return q.db.QueryRowContext(ctx, q.d.Rebind(query), args...)
}

// utc normalises timestamps before they reach the database so that text
// comparisons in SQLite order correctly.
func utc(t time.Time) time.Time { return t.UTC() }
