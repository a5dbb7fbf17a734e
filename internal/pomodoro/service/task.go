package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/domain"
	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/store"
	"github.com/aussiebroadwan/pomodoro/pkg/idx"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrInvalidStatus = errors.New("invalid task status")
)

// TaskService manages tasks on behalf of their owner. Every operation is
// scoped by ownerID; another user's task is treated as missing.
type TaskService struct {
	Store store.Store
}

func (s *TaskService) Create(ctx context.Context, ownerID, description string, status domain.TaskStatus) (domain.Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return domain.Task{}, ErrInvalidInput
	}
	st, err := domain.ParseTaskStatus(string(status))
	if err != nil {
		return domain.Task{}, ErrInvalidStatus
	}

	now := time.Now().UTC()
	t := domain.Task{
		ID:          idx.NewAt(now).String(),
		UserID:      ownerID,
		Description: description,
		Status:      st,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Tasks().CreateTask(ctx, t); err != nil {
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// List returns the owner's tasks in creation order. It never returns nil.
func (s *TaskService) List(ctx context.Context, ownerID string) ([]domain.Task, error) {
	tasks, err := s.Store.Tasks().ListTasksByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

func (s *TaskService) UpdateStatus(ctx context.Context, id, ownerID string, status domain.TaskStatus) error {
	st, err := domain.ParseTaskStatus(string(status))
	if err != nil {
		return ErrInvalidStatus
	}
	if err := s.Store.Tasks().UpdateTaskStatus(ctx, id, ownerID, st); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (s *TaskService) Delete(ctx context.Context, id, ownerID string) error {
	if err := s.Store.Tasks().DeleteTask(ctx, id, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
