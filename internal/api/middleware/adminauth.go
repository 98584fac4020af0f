package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/taskdeck/taskdeck/internal/api/shared"
	"github.com/taskdeck/taskdeck/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuthMiddleware protects admin endpoints with HTTP basic auth checked
// against the bcrypt hash from configuration. Generate the hash with
// cmd/hashgen.
type AdminAuthMiddleware struct {
	cfg config.AdminConfig
}

// NewAdminAuthMiddleware creates a new AdminAuthMiddleware.
func NewAdminAuthMiddleware(cfg config.AdminConfig) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{cfg: cfg}
}

// Require rejects requests that do not carry valid admin credentials.
// When no admin account is configured, the endpoints are disabled outright.
func (m *AdminAuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.cfg.Username == "" || m.cfg.PasswordHash == "" {
			shared.RespondWithError(w, r, http.StatusNotFound, "Not found")
			return
		}

		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="taskdeck admin"`)
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}

		usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(m.cfg.Username)) == 1
		passwordErr := bcrypt.CompareHashAndPassword([]byte(m.cfg.PasswordHash), []byte(password))
		if !usernameMatch || passwordErr != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="taskdeck admin"`)
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		next.ServeHTTP(w, r)
	})
}
