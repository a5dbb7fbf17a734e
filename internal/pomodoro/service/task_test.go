package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/pomodoro/internal/pomodoro/domain"
	"github.com/stretchr/testify/require"
)

func TestTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, err := f.accounts.Register(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	empty, err := f.tasks.List(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)

	a, err := f.tasks.Create(ctx, alice.ID, "  write report ", domain.StatusToDo)
	require.NoError(t, err)
	require.Equal(t, "write report", a.Description)
	b, err := f.tasks.Create(ctx, alice.ID, "review", domain.StatusWorkingOn)
	require.NoError(t, err)

	tasks, err := f.tasks.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, []string{a.ID, b.ID}, []string{tasks[0].ID, tasks[1].ID})

	require.NoError(t, f.tasks.UpdateStatus(ctx, a.ID, alice.ID, domain.StatusDone))
	tasks, err = f.tasks.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDone, tasks[0].Status)

	require.NoError(t, f.tasks.Delete(ctx, a.ID, alice.ID))
	require.ErrorIs(t, f.tasks.Delete(ctx, a.ID, alice.ID), ErrTaskNotFound)
}

func TestTaskValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, err := f.accounts.Register(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	_, err = f.tasks.Create(ctx, alice.ID, "x", domain.TaskStatus("archived"))
	require.ErrorIs(t, err, ErrInvalidStatus)
	_, err = f.tasks.Create(ctx, alice.ID, "   ", domain.StatusToDo)
	require.ErrorIs(t, err, ErrInvalidInput)

	task, err := f.tasks.Create(ctx, alice.ID, "x", domain.StatusToDo)
	require.NoError(t, err)
	require.ErrorIs(t, f.tasks.UpdateStatus(ctx, task.ID, alice.ID, "Done"), ErrInvalidStatus)
}

func TestTasksOfOthersLookAbsent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, err := f.accounts.Register(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	mallory, err := f.accounts.Register(ctx, "mallory@example.com", "secret1")
	require.NoError(t, err)

	task, err := f.tasks.Create(ctx, alice.ID, "private", domain.StatusToDo)
	require.NoError(t, err)

	require.ErrorIs(t, f.tasks.UpdateStatus(ctx, task.ID, mallory.ID, domain.StatusDone), ErrTaskNotFound)
	require.ErrorIs(t, f.tasks.Delete(ctx, task.ID, mallory.ID), ErrTaskNotFound)

	seen, err := f.tasks.List(ctx, mallory.ID)
	require.NoError(t, err)
	require.Empty(t, seen)

	mine, err := f.tasks.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, domain.StatusToDo, mine[0].Status)
}
