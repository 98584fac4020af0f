package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/store/memory"
)

func newUserRouter(t *testing.T) chi.Router {
	t.Helper()
	h := NewUserHandler(memory.New().Users(), slog.Default())

	r := chi.NewRouter()
	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})
	return r
}

func TestUserAdministrationFlow(t *testing.T) {
	router := newUserRouter(t)

	// Create an admin and a member
	w := doJSON(t, router, http.MethodPost, "/api/users", `{"username":"robin","display_name":"Robin","role":"admin"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var admin domain.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &admin))
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	w = doJSON(t, router, http.MethodPost, "/api/users", `{"username":"casey","role":"member"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// Duplicate username conflicts
	w = doJSON(t, router, http.MethodPost, "/api/users", `{"username":"casey","role":"member"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	// List
	w = doJSON(t, router, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, w.Code)
	var users []domain.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 2)

	// Promote casey
	var casey domain.User
	for _, u := range users {
		if u.Username == "casey" {
			casey = u
		}
	}
	w = doJSON(t, router, http.MethodPut, "/api/users/"+casey.ID.String(),
		`{"username":"casey","display_name":"Casey","role":"admin"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var promoted domain.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &promoted))
	assert.Equal(t, domain.RoleAdmin, promoted.Role)

	// Delete
	w = doJSON(t, router, http.MethodDelete, "/api/users/"+casey.ID.String(), "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/users/"+casey.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateUserValidation(t *testing.T) {
	router := newUserRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing username", body: `{"role":"member"}`},
		{name: "invalid role", body: `{"username":"x","role":"owner"}`},
		{name: "missing role", body: `{"username":"x"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/users", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUserNotFound(t *testing.T) {
	router := newUserRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/users/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/users/bogus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
