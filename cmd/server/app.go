package main

import (
	"fmt"
	"log/slog"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/proxy"
	"github.com/taskdeck/taskdeck/internal/store/memory"
)

// application holds the wired dependencies of the running server. In
// gateway mode the forwarder carries all /api traffic; in standalone mode
// the handlers serve the same surface from the in-memory store.
type application struct {
	config *config.Config
	logger *slog.Logger

	// Gateway mode
	forwarder *proxy.Forwarder

	// Standalone mode
	taskHandler *api.TaskHandler
	userHandler *api.UserHandler
}

// newApplication wires the application for the configured mode.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	if cfg.Standalone() {
		logger.Warn("no upstream configured, serving from the in-memory store; data will not survive a restart")

		mem := memory.New()
		app.taskHandler = api.NewTaskHandler(mem, mem.Comments(), logger)
		app.userHandler = api.NewUserHandler(mem.Users(), logger)
		return app, nil
	}

	forwarder, err := proxy.New(cfg.Upstream, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream forwarder: %w", err)
	}
	app.forwarder = forwarder

	return app, nil
}

// cleanup releases application resources on shutdown. The gateway holds no
// connections or state beyond the HTTP server itself.
func (app *application) cleanup() {
	app.logger.Debug("application cleanup complete")
}
