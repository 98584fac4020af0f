package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("mmartin", "Morgan Martin", RoleMember)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if user.Username != "mmartin" {
		t.Errorf("Expected username %q, got %q", "mmartin", user.Username)
	}

	if user.Role != RoleMember {
		t.Errorf("Expected role %q, got %q", RoleMember, user.Role)
	}

	if user.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	// Test empty username
	_, err = NewUser("", "Nameless", RoleMember)
	if err != ErrEmptyUsername {
		t.Errorf("Expected error %v, got %v", ErrEmptyUsername, err)
	}

	// Test invalid role
	_, err = NewUser("mmartin", "Morgan Martin", UserRole("owner"))
	if err != ErrInvalidRole {
		t.Errorf("Expected error %v, got %v", ErrInvalidRole, err)
	}
}

func TestUserValidate(t *testing.T) {
	validUser := User{
		ID:       uuid.New(),
		Username: "admin",
		Role:     RoleAdmin,
	}

	if err := validUser.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalidUser := validUser
	invalidUser.ID = uuid.Nil
	if err := invalidUser.Validate(); err != ErrEmptyUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyUserID, err)
	}

	invalidUser = validUser
	invalidUser.Username = ""
	if err := invalidUser.Validate(); err != ErrEmptyUsername {
		t.Errorf("Expected error %v, got %v", ErrEmptyUsername, err)
	}

	invalidUser = validUser
	invalidUser.Role = ""
	if err := invalidUser.Validate(); err != ErrInvalidRole {
		t.Errorf("Expected error %v, got %v", ErrInvalidRole, err)
	}
}
