package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common task validation errors
var (
	ErrEmptyTaskID     = errors.New("task ID cannot be empty")
	ErrEmptyTaskName   = errors.New("task name cannot be empty")
	ErrTaskNameTooLong = errors.New("task name must be at most 200 characters long")
	ErrInvalidStatus   = errors.New("invalid task status")
)

// TaskStatus is the workflow state of a task. The tracker recognizes exactly
// three states; anything else is rejected before it reaches the upstream.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "inprogress"
	TaskStatusDone       TaskStatus = "done"
)

// IsValid reports whether the status is one of the three recognized values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// MaxTaskNameLength is the longest task name accepted by local validation.
const MaxTaskNameLength = 200

// Task represents a unit of work in the tracker. Description and AssigneeID
// are optional; comments and attachments reference the task by ID.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates a new Task with the given name and description.
// It generates a new UUID for the task ID, sets the status to todo, and
// stamps the creation/update times. Returns an error if validation fails.
func NewTask(name, description string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Status:      TaskStatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Name == "" {
		return ErrEmptyTaskName
	}

	if len(t.Name) > MaxTaskNameLength {
		return ErrTaskNameTooLong
	}

	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}

	return nil
}
