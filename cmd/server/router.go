package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	apiMiddleware "github.com/taskdeck/taskdeck/internal/api/middleware"
	"github.com/taskdeck/taskdeck/internal/api/shared"
	"github.com/taskdeck/taskdeck/internal/proxy"
	"github.com/taskdeck/taskdeck/internal/web"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	if len(app.config.Web.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   app.config.Web.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	identity := apiMiddleware.NewIdentityMiddleware()

	r.Route("/api", func(r chi.Router) {
		r.Use(identity.Annotate)

		if app.config.Standalone() {
			app.registerStandaloneRoutes(r)
		} else {
			app.registerGatewayRoutes(r)
		}
	})

	// Admin endpoints (basic auth, disabled unless configured)
	adminAuth := apiMiddleware.NewAdminAuthMiddleware(app.config.Admin)
	r.Group(func(r chi.Router) {
		r.Use(adminAuth.Require)
		r.Get("/admin/config", app.handleAdminConfig)
	})

	// Health check endpoint
	r.Get("/health", app.handleHealth)

	// Browser UI assets, when a build directory is configured
	if app.config.Web.StaticDir != "" {
		r.NotFound(web.NewSPAHandler(app.config.Web.StaticDir).ServeHTTP)
	}

	return r
}

// registerGatewayRoutes forwards the whole /api surface to the upstream.
// Auth and attachment routes get their body transforms; everything else is
// a byte-for-byte passthrough.
func (app *application) registerGatewayRoutes(r chi.Router) {
	passthrough := proxy.Rule{StripPrefix: "/api"}
	login := proxy.Rule{StripPrefix: "/api", Transform: proxy.JSONToForm}
	upload := proxy.Rule{
		StripPrefix:  "/api",
		Transform:    proxy.MultipartRewrite,
		FieldRenames: map[string]string{"file": "attachment"},
	}

	r.Post("/auth/login", app.forwarder.Handler(login))
	r.Post("/auth/refresh", app.forwarder.Handler(login))
	r.Post("/tasks/{id}/attachments", app.forwarder.Handler(upload))
	r.HandleFunc("/*", app.forwarder.Handler(passthrough))
}

// registerStandaloneRoutes serves the same surface from the in-memory store.
func (app *application) registerStandaloneRoutes(r chi.Router) {
	// The in-memory store has no credentials to check; auth belongs to the
	// upstream.
	authNotAvailable := func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotImplemented,
			"Authentication requires an upstream service")
	}
	r.Post("/auth/login", authNotAvailable)
	r.Post("/auth/refresh", authNotAvailable)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", app.taskHandler.ListTasks)
		r.Post("/", app.taskHandler.CreateTask)
		r.Get("/{id}", app.taskHandler.GetTask)
		r.Put("/{id}", app.taskHandler.UpdateTask)
		r.Delete("/{id}", app.taskHandler.DeleteTask)
		r.Get("/{id}/comments", app.taskHandler.ListComments)
		r.Post("/{id}/comments", app.taskHandler.CreateComment)
		r.Post("/{id}/attachments", app.taskHandler.UploadAttachment)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", app.userHandler.ListUsers)
		r.Post("/", app.userHandler.CreateUser)
		r.Get("/{id}", app.userHandler.GetUser)
		r.Put("/{id}", app.userHandler.UpdateUser)
		r.Delete("/{id}", app.userHandler.DeleteUser)
	})
}

// handleHealth reports gateway liveness and, in gateway mode, upstream
// reachability. The gateway itself is healthy either way; the upstream
// field is informational.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]string{
		"status": "ok",
		"mode":   "gateway",
	}

	if app.config.Standalone() {
		health["mode"] = "standalone"
	} else if err := app.forwarder.Ping(r.Context()); err != nil {
		health["upstream"] = "unreachable"
	} else {
		health["upstream"] = "ok"
	}

	shared.RespondWithJSON(w, r, http.StatusOK, health)
}

// handleAdminConfig returns the current non-secret configuration snapshot.
func (app *application) handleAdminConfig(w http.ResponseWriter, r *http.Request) {
	snapshot := map[string]interface{}{
		"server": map[string]interface{}{
			"port":      app.config.Server.Port,
			"log_level": app.config.Server.LogLevel,
		},
		"upstream": map[string]interface{}{
			"configured":       !app.config.Standalone(),
			"base_path":        app.config.Upstream.BasePath,
			"timeout_sec":      app.config.Upstream.TimeoutSec,
			"max_upload_bytes": app.config.Upstream.MaxUploadBytes,
		},
		"web": map[string]interface{}{
			"static_dir":      app.config.Web.StaticDir,
			"allowed_origins": app.config.Web.AllowedOrigins,
		},
	}

	shared.RespondWithJSON(w, r, http.StatusOK, snapshot)
}
