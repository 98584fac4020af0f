package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common comment validation errors
var (
	ErrEmptyCommentID     = errors.New("comment ID cannot be empty")
	ErrEmptyCommentTaskID = errors.New("comment task ID cannot be empty")
	ErrEmptyCommentAuthor = errors.New("comment author ID cannot be empty")
	ErrEmptyCommentBody   = errors.New("comment body cannot be empty")
	ErrCommentBodyTooLong = errors.New("comment body must be at most 10000 characters long")
)

// MaxCommentBodyLength is the longest comment body accepted by local validation.
const MaxCommentBodyLength = 10000

// Comment is a free-text note attached to a task by a user.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// NewComment creates a new Comment on the given task by the given author.
// It generates a new UUID for the comment ID and stamps the creation time.
// Returns an error if validation fails.
func NewComment(taskID, authorID uuid.UUID, body string) (*Comment, error) {
	comment := &Comment{
		ID:        uuid.New(),
		TaskID:    taskID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	if err := comment.Validate(); err != nil {
		return nil, err
	}

	return comment, nil
}

// Validate checks if the Comment has valid data.
// Returns an error if any field fails validation.
func (c *Comment) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCommentID
	}

	if c.TaskID == uuid.Nil {
		return ErrEmptyCommentTaskID
	}

	if c.AuthorID == uuid.Nil {
		return ErrEmptyCommentAuthor
	}

	if c.Body == "" {
		return ErrEmptyCommentBody
	}

	if len(c.Body) > MaxCommentBodyLength {
		return ErrCommentBodyTooLong
	}

	return nil
}
