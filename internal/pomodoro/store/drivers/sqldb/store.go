package sqldb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/store"
)

// MigrateFunc applies the driver's embedded migrations to db.
type MigrateFunc func(db *sql.DB) error

type Store struct {
	db      *sql.DB
	d       Dialect
	q       *queries
	migrate MigrateFunc
}

var _ store.Store = (*Store)(nil)

// New wraps an open connection pool. migrate may be nil when the schema is
// managed elsewhere.
func New(db *sql.DB, d Dialect, migrate MigrateFunc) *Store {
	return &Store{
		db:      db,
		d:       d,
		q:       newQueries(db, d),
		migrate: migrate,
	}
}

// DB exposes the pool for drivers that need to tune it.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) ApplyMigrations() error {
	if s.migrate == nil {
		return nil
	}
	return s.migrate(s.db)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx, s.d), nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Rollback after a successful commit returns sql.ErrTxDone, which we ignore.
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Users() store.Users                   { return &usersRepo{q: s.q} }
func (s *Store) Tasks() store.Tasks                   { return &tasksRepo{q: s.q} }
func (s *Store) PasswordResets() store.PasswordResets { return &passwordResetsRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func (q *queries) mapUnique(err error) error {
	if err != nil && q.d.IsUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func requireOne(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
