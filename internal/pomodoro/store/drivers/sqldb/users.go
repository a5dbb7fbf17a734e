package sqldb

import (
	"context"
	"time"

	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/domain"
)

const (
	selectUser = `SELECT id, email, password_hash, created_at, updated_at FROM users`

	getUserByID    = selectUser + ` WHERE id = ?`
	getUserByEmail = selectUser + ` WHERE email = ?`

	createUser = `INSERT INTO users (id, email, password_hash, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`

	updateUserPasswordHash = `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`

	deleteUser = `DELETE FROM users WHERE id = ?`
)

type usersRepo struct {
	q *queries
}

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u, err := scanUser(r.q.queryRow(ctx, getUserByID, id))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := scanUser(r.q.queryRow(ctx, getUserByEmail, email))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
	_, err := r.q.exec(ctx, createUser,
		u.ID, u.Email, u.PasswordHash, utc(u.CreatedAt), utc(u.UpdatedAt))
	return r.q.mapUnique(err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	return requireOne(r.q.execRows(ctx, updateUserPasswordHash, newHash, time.Now().UTC(), userID))
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	return requireOne(r.q.execRows(ctx, deleteUser, userID))
}
