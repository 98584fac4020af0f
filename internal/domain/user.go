package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common user validation errors
var (
	ErrEmptyUserID     = errors.New("user ID cannot be empty")
	ErrEmptyUsername   = errors.New("username cannot be empty")
	ErrUsernameTooLong = errors.New("username must be at most 64 characters long")
	ErrInvalidRole     = errors.New("invalid user role")
)

// UserRole distinguishes administrators (who manage users) from members.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// IsValid reports whether the role is one of the recognized values.
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleMember
}

// MaxUsernameLength is the longest username accepted by local validation.
const MaxUsernameLength = 64

// User represents an account in the tracker. Credentials are held and
// verified by the upstream service; this type never carries a password.
type User struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	Role        UserRole  `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given username, display name, and role.
// It generates a new UUID for the user ID and sets the creation/update
// timestamps. Returns an error if validation fails.
func NewUser(username, displayName string, role UserRole) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:          uuid.New(),
		Username:    username,
		DisplayName: displayName,
		Role:        role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Username == "" {
		return ErrEmptyUsername
	}

	if len(u.Username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}

	if !u.Role.IsValid() {
		return ErrInvalidRole
	}

	return nil
}
