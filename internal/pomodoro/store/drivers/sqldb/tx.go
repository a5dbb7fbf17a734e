package sqldb

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/store"
)

type txStore struct {
	tx *sql.Tx
	q  *queries
}

func newTx(tx *sql.Tx, d Dialect) *txStore {
	return &txStore{
		tx: tx,
		q:  newQueries(tx, d),
	}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the caller commits or rolls back and the pool stays open.
func (t *txStore) Close() error { return nil }

// Ping is a no-op inside a transaction, the connection is already held.
func (t *txStore) Ping(ctx context.Context) error { return nil }

// Nested transactions are not supported.
func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users                   { return &usersRepo{q: t.q} }
func (t *txStore) Tasks() store.Tasks                   { return &tasksRepo{q: t.q} }
func (t *txStore) PasswordResets() store.PasswordResets { return &passwordResetsRepo{q: t.q} }

// ApplyMigrations is a no-op; migrations run before any transaction starts.
func (t *txStore) ApplyMigrations() error { return nil }
