// Package config defines the application's configuration structure and
// loading. Values come from defaults, an optional config.yaml, and
// TASKDECK_-prefixed environment variables, with env vars winning.
package config
