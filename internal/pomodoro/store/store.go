package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Sub-repositories are exposed as methods so a Tx-scoped store
// hands out repos bound to the transaction, and so nobody accidentally opens
// a transaction inside a transaction.
type Store interface {
	Users() Users
	Tasks() Tasks
	PasswordResets() PasswordResets

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. The transaction is rolled back
	// if fn returns an error or panics, and committed otherwise. The
	// transaction holds one pooled connection until it finishes.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the connection pool.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used by login and forgot-password. Exact match.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user. Returns ErrAlreadyExists if the email is
	// taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets password_hash and bumps updated_at. Returns
	// ErrNotFound if no row matched.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// DeleteUser removes the user row. Returns ErrNotFound if no row matched.
	DeleteUser(ctx context.Context, userID string) error
}

// Tasks methods all take the owner; a task that belongs to somebody else is
// indistinguishable from one that does not exist.
type Tasks interface {
	CreateTask(ctx context.Context, t domain.Task) error

	// ListTasksByUser returns the owner's tasks oldest first.
	ListTasksByUser(ctx context.Context, userID string) ([]domain.Task, error)

	// UpdateTaskStatus returns ErrNotFound if (id, userID) matched nothing.
	UpdateTaskStatus(ctx context.Context, id, userID string, status domain.TaskStatus) error

	// DeleteTask returns ErrNotFound if (id, userID) matched nothing.
	DeleteTask(ctx context.Context, id, userID string) error

	// DeleteTasksByUser removes every task of a user, returning how many went.
	DeleteTasksByUser(ctx context.Context, userID string) (int64, error)
}

type PasswordResets interface {
	// CreatePasswordReset stores a new reset record.
	CreatePasswordReset(ctx context.Context, p domain.PasswordReset) error

	// GetPasswordResetByTokenHash returns the record regardless of expiry so
	// callers can tell expired from unknown.
	GetPasswordResetByTokenHash(ctx context.Context, hash string) (domain.PasswordReset, error)

	// DeletePasswordReset consumes one record. Returns ErrNotFound if it was
	// already gone.
	DeletePasswordReset(ctx context.Context, id string) error

	// DeletePasswordResetsByUser removes every reset record of a user.
	DeletePasswordResetsByUser(ctx context.Context, userID string) (int64, error)

	// DeleteExpiredPasswordResets is housekeeping.
	DeleteExpiredPasswordResets(ctx context.Context, now time.Time) (int64, error)
}
