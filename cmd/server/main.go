// Package main implements the entry point for the taskdeck server, the
// gateway between the task-tracking browser UI and the upstream service
// that owns all task and user data.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/platform/logger"
)

// main loads configuration, wires the application, and runs the HTTP
// server until a shutdown signal arrives.
func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	router := app.setupRouter()
	if err := app.startHTTPServer(context.Background(), router); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration and sets up application components.
// Returns the wired application and any initialization error.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"standalone", cfg.Standalone())

	if !cfg.Standalone() {
		slog.Debug("Upstream configuration", "url_present", true, "base_path", cfg.Upstream.BasePath)
	}

	return newApplication(cfg, appLogger)
}
