package sqldb

import (
	"context"
	"time"

	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/domain"
)

const (
	createPasswordReset = `INSERT INTO password_resets (id, user_id, token_hash, expires_at, created_at)
VALUES (?, ?, ?, ?, ?)`

	getPasswordResetByTokenHash = `SELECT id, user_id, token_hash, expires_at, created_at
FROM password_resets WHERE token_hash = ?`

	deletePasswordReset = `DELETE FROM password_resets WHERE id = ?`

	deletePasswordResetsByUser = `DELETE FROM password_resets WHERE user_id = ?`

	deleteExpiredPasswordResets = `DELETE FROM password_resets WHERE expires_at <= ?`
)

type passwordResetsRepo struct {
	q *queries
}

func (r *passwordResetsRepo) CreatePasswordReset(ctx context.Context, p domain.PasswordReset) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := r.q.exec(ctx, createPasswordReset,
		p.ID, p.UserID, p.TokenHash, utc(p.ExpiresAt), utc(p.CreatedAt))
	return r.q.mapUnique(err)
}

func (r *passwordResetsRepo) GetPasswordResetByTokenHash(ctx context.Context, hash string) (domain.PasswordReset, error) {
	var p domain.PasswordReset
	err := r.q.queryRow(ctx, getPasswordResetByTokenHash, hash).
		Scan(&p.ID, &p.UserID, &p.TokenHash, &p.ExpiresAt, &p.CreatedAt)
	if err != nil {
		return domain.PasswordReset{}, mapNotFound(err)
	}
	return p, nil
}

func (r *passwordResetsRepo) DeletePasswordReset(ctx context.Context, id string) error {
	return requireOne(r.q.execRows(ctx, deletePasswordReset, id))
}

func (r *passwordResetsRepo) DeletePasswordResetsByUser(ctx context.Context, userID string) (int64, error) {
	return r.q.execRows(ctx, deletePasswordResetsByUser, userID)
}

func (r *passwordResetsRepo) DeleteExpiredPasswordResets(ctx context.Context, now time.Time) (int64, error) {
	return r.q.execRows(ctx, deleteExpiredPasswordResets, utc(now))
}
