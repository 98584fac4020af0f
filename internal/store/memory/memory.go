// Package memory provides mutex-guarded in-memory implementations of the
// store interfaces. It backs standalone (development) mode and tests; it is
// never the system of record in gateway mode.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/store"
)

// Store holds all entities behind a single mutex. Task, user, and comment
// views of it satisfy the corresponding store interfaces.
type Store struct {
	mu       sync.RWMutex
	tasks    map[uuid.UUID]*domain.Task
	users    map[uuid.UUID]*domain.User
	comments map[uuid.UUID]*domain.Comment
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		tasks:    make(map[uuid.UUID]*domain.Task),
		users:    make(map[uuid.UUID]*domain.User),
		comments: make(map[uuid.UUID]*domain.Comment),
	}
}

// Compile-time interface checks.
var (
	_ store.TaskStore    = (*Store)(nil)
	_ store.UserStore    = userStore{}
	_ store.CommentStore = commentStore{}
)

// Create saves a new task.
func (s *Store) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *task
	s.tasks[task.ID] = &copied
	return nil
}

// GetByID retrieves a task by ID.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}

	copied := *task
	return &copied, nil
}

// List returns all tasks, optionally filtered by status, ordered by creation time.
func (s *Store) List(ctx context.Context, status *domain.TaskStatus) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*domain.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if status != nil && task.Status != *status {
			continue
		}
		copied := *task
		tasks = append(tasks, &copied)
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})

	return tasks, nil
}

// Update modifies an existing task and refreshes its UpdatedAt timestamp.
func (s *Store) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}

	copied := *task
	copied.UpdatedAt = time.Now().UTC()
	s.tasks[task.ID] = &copied
	task.UpdatedAt = copied.UpdatedAt
	return nil
}

// Delete removes a task and its comments.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}

	delete(s.tasks, id)
	for commentID, comment := range s.comments {
		if comment.TaskID == id {
			delete(s.comments, commentID)
		}
	}
	return nil
}

// userStore adapts Store to the store.UserStore interface. The unqualified
// Create/GetByID/List/Update/Delete methods on Store itself belong to the
// task view.
type userStore struct{ s *Store }

// commentStore adapts Store to the store.CommentStore interface.
type commentStore struct{ s *Store }

// Users returns the store's user view.
func (s *Store) Users() store.UserStore { return userStore{s} }

// Comments returns the store's comment view.
func (s *Store) Comments() store.CommentStore { return commentStore{s} }

func (u userStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	for _, existing := range u.s.users {
		if existing.Username == user.Username {
			return store.ErrUsernameExists
		}
	}

	copied := *user
	u.s.users[user.ID] = &copied
	return nil
}

func (u userStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	user, ok := u.s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}

	copied := *user
	return &copied, nil
}

func (u userStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	for _, user := range u.s.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (u userStore) List(ctx context.Context) ([]*domain.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	users := make([]*domain.User, 0, len(u.s.users))
	for _, user := range u.s.users {
		copied := *user
		users = append(users, &copied)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	return users, nil
}

func (u userStore) Update(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	if _, ok := u.s.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}

	for id, existing := range u.s.users {
		if id != user.ID && existing.Username == user.Username {
			return store.ErrUsernameExists
		}
	}

	copied := *user
	copied.UpdatedAt = time.Now().UTC()
	u.s.users[user.ID] = &copied
	user.UpdatedAt = copied.UpdatedAt
	return nil
}

func (u userStore) Delete(ctx context.Context, id uuid.UUID) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	if _, ok := u.s.users[id]; !ok {
		return store.ErrUserNotFound
	}

	delete(u.s.users, id)
	return nil
}

func (c commentStore) Create(ctx context.Context, comment *domain.Comment) error {
	if err := comment.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if _, ok := c.s.tasks[comment.TaskID]; !ok {
		return store.ErrTaskNotFound
	}

	copied := *comment
	c.s.comments[comment.ID] = &copied
	return nil
}

func (c commentStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	if _, ok := c.s.tasks[taskID]; !ok {
		return nil, store.ErrTaskNotFound
	}

	comments := make([]*domain.Comment, 0)
	for _, comment := range c.s.comments {
		if comment.TaskID == taskID {
			copied := *comment
			comments = append(comments, &copied)
		}
	}

	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})

	return comments, nil
}

func (c commentStore) Delete(ctx context.Context, id uuid.UUID) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if _, ok := c.s.comments[id]; !ok {
		return store.ErrCommentNotFound
	}

	delete(c.s.comments, id)
	return nil
}
