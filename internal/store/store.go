package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck/internal/domain"
)

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns wrapped ErrInvalidEntity if the task fails domain validation.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List returns all tasks, optionally filtered by status.
	// A nil filter returns every task. Results are ordered by creation time.
	List(ctx context.Context, status *domain.TaskStatus) ([]*domain.Task, error)

	// Update modifies an existing task. The caller provides the complete
	// task object; UpdatedAt is refreshed by the store.
	// Returns ErrTaskNotFound if the task does not exist.
	// Returns wrapped ErrInvalidEntity if the task fails domain validation.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task and its comments from the store by ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserStore defines the interface for user persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrUsernameExists if the username is already taken.
	// Returns wrapped ErrInvalidEntity if the user fails domain validation.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by their username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// List returns all users ordered by creation time.
	List(ctx context.Context) ([]*domain.User, error)

	// Update modifies an existing user's details.
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrUsernameExists if renaming to a taken username.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their ID.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CommentStore defines the interface for comment persistence.
type CommentStore interface {
	// Create saves a new comment to the store.
	// Returns ErrTaskNotFound if the parent task does not exist.
	// Returns wrapped ErrInvalidEntity if the comment fails domain validation.
	Create(ctx context.Context, comment *domain.Comment) error

	// ListByTask returns all comments on the given task ordered by creation
	// time. Returns ErrTaskNotFound if the task does not exist.
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error)

	// Delete removes a comment from the store by its ID.
	// Returns ErrCommentNotFound if the comment does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
