package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.read_timeout_sec", 15)
	v.SetDefault("server.write_timeout_sec", 30)
	v.SetDefault("upstream.url", "")
	v.SetDefault("upstream.base_path", "")
	v.SetDefault("upstream.timeout_sec", 30)
	v.SetDefault("upstream.max_upload_bytes", 25<<20)
	v.SetDefault("admin.username", "")
	v.SetDefault("admin.password_hash", "")
	v.SetDefault("web.static_dir", "")
	v.SetDefault("web.allowed_origins", []string{})

	// Optional config file in the working directory
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Running without a config file is fine; env vars and defaults apply.
	}

	// Environment variables with TASKDECK_ prefix override everything,
	// e.g. TASKDECK_UPSTREAM_URL maps to upstream.url.
	v.SetEnvPrefix("TASKDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Basic auth needs both halves; half-configured admin access is a
	// misconfiguration, not a disabled feature.
	if (cfg.Admin.Username == "") != (cfg.Admin.PasswordHash == "") {
		return nil, fmt.Errorf("invalid configuration: admin username and password hash must be set together")
	}

	return &cfg, nil
}
