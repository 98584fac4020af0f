package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Web      WebConfig      `mapstructure:"web"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec" validate:"gte=0"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec" validate:"gte=0"`
}

// UpstreamConfig describes the remote service all data operations forward
// to. An empty URL switches the server into standalone mode, serving the
// API from the in-memory store instead of proxying.
type UpstreamConfig struct {
	URL            string `mapstructure:"url" validate:"omitempty,url"`
	BasePath       string `mapstructure:"base_path"`
	TimeoutSec     int    `mapstructure:"timeout_sec" validate:"gte=0"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes" validate:"gte=0"`
}

// AdminConfig protects the admin endpoints with HTTP basic auth. The
// password is stored only as a bcrypt hash (see cmd/hashgen). Empty values
// disable the admin endpoints entirely.
type AdminConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
}

// WebConfig covers the browser-facing surface: static asset serving and CORS.
type WebConfig struct {
	StaticDir      string   `mapstructure:"static_dir"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Standalone reports whether the server runs without an upstream, serving
// the API from the in-memory store.
func (c *Config) Standalone() bool {
	return c.Upstream.URL == ""
}
