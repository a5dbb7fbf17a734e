package sqldb

import (
	"context"
	"time"

	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/domain"
)

const (
	createTask = `INSERT INTO tasks (id, user_id, description, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`

	listTasksByUser = `SELECT id, user_id, description, status, created_at, updated_at
FROM tasks WHERE user_id = ? ORDER BY id`

	updateTaskStatus = `UPDATE tasks SET status = ?, updated_at = ? WHERE id = ? AND user_id = ?`

	deleteTask = `DELETE FROM tasks WHERE id = ? AND user_id = ?`

	deleteTasksByUser = `DELETE FROM tasks WHERE user_id = ?`
)

type tasksRepo struct {
	q *queries
}

func (r *tasksRepo) CreateTask(ctx context.Context, t domain.Task) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	_, err := r.q.exec(ctx, createTask,
		t.ID, t.UserID, t.Description, string(t.Status), utc(t.CreatedAt), utc(t.UpdatedAt))
	return err
}

func (r *tasksRepo) ListTasksByUser(ctx context.Context, userID string) ([]domain.Task, error) {
	rows, err := r.q.query(ctx, listTasksByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		var (
			t      domain.Task
			status string
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Description, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Status = domain.TaskStatus(status)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *tasksRepo) UpdateTaskStatus(ctx context.Context, id, userID string, status domain.TaskStatus) error {
	return requireOne(r.q.execRows(ctx, updateTaskStatus, string(status), time.Now().UTC(), id, userID))
}

func (r *tasksRepo) DeleteTask(ctx context.Context, id, userID string) error {
	return requireOne(r.q.execRows(ctx, deleteTask, id, userID))
}

func (r *tasksRepo) DeleteTasksByUser(ctx context.Context, userID string) (int64, error) {
	return r.q.execRows(ctx, deleteTasksByUser, userID)
}
