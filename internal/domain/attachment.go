package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common attachment validation errors
var (
	ErrEmptyAttachmentID     = errors.New("attachment ID cannot be empty")
	ErrEmptyAttachmentTaskID = errors.New("attachment task ID cannot be empty")
	ErrEmptyFileName         = errors.New("attachment file name cannot be empty")
	ErrNegativeSize          = errors.New("attachment size cannot be negative")
)

// Attachment describes a file uploaded to a task. Only metadata lives here;
// the file bytes are streamed through the gateway and stored upstream.
type Attachment struct {
	ID          uuid.UUID `json:"id"`
	TaskID      uuid.UUID `json:"task_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// NewAttachment creates attachment metadata for a file on the given task.
// Returns an error if validation fails.
func NewAttachment(taskID uuid.UUID, fileName, contentType string, size int64) (*Attachment, error) {
	attachment := &Attachment{
		ID:          uuid.New(),
		TaskID:      taskID,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		UploadedAt:  time.Now().UTC(),
	}

	if err := attachment.Validate(); err != nil {
		return nil, err
	}

	return attachment, nil
}

// Validate checks if the Attachment has valid data.
// Returns an error if any field fails validation.
func (a *Attachment) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyAttachmentID
	}

	if a.TaskID == uuid.Nil {
		return ErrEmptyAttachmentTaskID
	}

	if a.FileName == "" {
		return ErrEmptyFileName
	}

	if a.Size < 0 {
		return ErrNegativeSize
	}

	return nil
}
