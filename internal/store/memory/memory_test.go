package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/store"
)

func mustTask(t *testing.T, name string) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(name, "")
	require.NoError(t, err)
	return task
}

func TestTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	task := mustTask(t, "wire the staging upstream")
	require.NoError(t, s.Create(ctx, task))

	got, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Name, got.Name)
	assert.Equal(t, domain.TaskStatusTodo, got.Status)

	// Mutating the returned copy must not affect the stored task.
	got.Name = "mutated"
	again, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Name, again.Name)

	task.Status = domain.TaskStatusDone
	require.NoError(t, s.Update(ctx, task))

	updated, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusDone, updated.Status)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

	require.NoError(t, s.Delete(ctx, task.ID))

	_, err = s.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskListFiltersByStatus(t *testing.T) {
	ctx := context.Background()
	s := New()

	todo := mustTask(t, "first")
	require.NoError(t, s.Create(ctx, todo))

	done := mustTask(t, "second")
	done.Status = domain.TaskStatusDone
	require.NoError(t, s.Create(ctx, done))

	all, err := s.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	status := domain.TaskStatusDone
	onlyDone, err := s.List(ctx, &status)
	require.NoError(t, err)
	require.Len(t, onlyDone, 1)
	assert.Equal(t, done.ID, onlyDone[0].ID)
}

func TestTaskNotFoundErrors(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	missing := mustTask(t, "never stored")
	assert.ErrorIs(t, s.Update(ctx, missing), store.ErrTaskNotFound)
	assert.ErrorIs(t, s.Delete(ctx, uuid.New()), store.ErrTaskNotFound)
}

func TestUserUniqueUsername(t *testing.T) {
	ctx := context.Background()
	users := New().Users()

	first, err := domain.NewUser("casey", "Casey", domain.RoleMember)
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, first))

	dup, err := domain.NewUser("casey", "Other Casey", domain.RoleMember)
	require.NoError(t, err)
	assert.ErrorIs(t, users.Create(ctx, dup), store.ErrUsernameExists)

	second, err := domain.NewUser("robin", "Robin", domain.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, second))

	// Renaming onto a taken username is rejected too.
	second.Username = "casey"
	assert.ErrorIs(t, users.Update(ctx, second), store.ErrUsernameExists)

	byName, err := users.GetByUsername(ctx, "casey")
	require.NoError(t, err)
	assert.Equal(t, first.ID, byName.ID)
}

func TestCommentsRequireTask(t *testing.T) {
	ctx := context.Background()
	s := New()
	comments := s.Comments()

	author, err := domain.NewUser("casey", "Casey", domain.RoleMember)
	require.NoError(t, err)

	orphan, err := domain.NewComment(uuid.New(), author.ID, "no such task")
	require.NoError(t, err)
	assert.ErrorIs(t, comments.Create(ctx, orphan), store.ErrTaskNotFound)

	task := mustTask(t, "discussable")
	require.NoError(t, s.Create(ctx, task))

	comment, err := domain.NewComment(task.ID, author.ID, "first comment")
	require.NoError(t, err)
	require.NoError(t, comments.Create(ctx, comment))

	listed, err := comments.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "first comment", listed[0].Body)

	// Deleting the task cascades to its comments.
	require.NoError(t, s.Delete(ctx, task.ID))
	_, err = comments.ListByTask(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestInvalidEntityRejected(t *testing.T) {
	ctx := context.Background()
	s := New()

	bad := &domain.Task{ID: uuid.New(), Name: "", Status: domain.TaskStatusTodo}
	err := s.Create(ctx, bad)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}
