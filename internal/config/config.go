package config

import (
	"fmt"
	"time"
)

// ServerConfig is the full server configuration. Loading is handled by
// viper in viper_config.go.
type ServerConfig struct {
	Server ServerSettings `yaml:"server" mapstructure:"server"`
}

// ServerSettings contains server-wide settings.
type ServerSettings struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port string `yaml:"port" mapstructure:"port"`

	// DatabaseURL selects the PostgreSQL store; empty means in-memory.
	DatabaseURL string `yaml:"databaseUrl" mapstructure:"databaseurl"`

	ReadTimeout     time.Duration `yaml:"readTimeout" mapstructure:"readtimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" mapstructure:"writetimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout" mapstructure:"idletimeout"` // 0 for SSE support
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" mapstructure:"shutdowntimeout"`

	// RoomTimeout is how long an untouched room survives before the janitor
	// removes it; 0 disables expiry. CleanupInterval is the sweep period.
	RoomTimeout     time.Duration `yaml:"roomTimeout" mapstructure:"roomtimeout"`
	CleanupInterval time.Duration `yaml:"cleanupInterval" mapstructure:"cleanupinterval"`

	// Rate limiting (golang.org/x/time/rate)
	RateLimit      float64 `yaml:"rateLimit" mapstructure:"ratelimit"`
	RateLimitBurst int     `yaml:"rateLimitBurst" mapstructure:"ratelimitburst"`

	MaxRequestSize int64 `yaml:"maxRequestSize" mapstructure:"maxrequestsize"`

	LogLevel  string `yaml:"logLevel" mapstructure:"loglevel"`
	LogFormat string `yaml:"logFormat" mapstructure:"logformat"`
}

// DefaultConfig returns a configuration with every setting at its default.
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Host: "0.0.0.0",
			Port: "8080",

			ReadTimeout:     15 * time.Second,
			WriteTimeout:    0, // 0 for SSE support
			IdleTimeout:     0,
			ShutdownTimeout: 30 * time.Second,

			RoomTimeout:     24 * time.Hour,
			CleanupInterval: time.Hour,

			RateLimit:      10,
			RateLimitBurst: 20,

			MaxRequestSize: 1 << 20, // 1MB

			LogLevel:  "info",
			LogFormat: "text",
		},
	}
}

// Validate checks if the configuration is usable.
func (c *ServerConfig) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("port must be set")
	}
	if c.Server.Host == "" {
		return fmt.Errorf("host must be set")
	}
	if c.Server.RateLimit <= 0 {
		return fmt.Errorf("rateLimit must be positive")
	}
	if c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("rateLimitBurst must be at least 1")
	}
	if c.Server.MaxRequestSize < 1 {
		return fmt.Errorf("maxRequestSize must be positive")
	}
	if c.Server.RoomTimeout < 0 {
		return fmt.Errorf("roomTimeout cannot be negative")
	}
	if c.Server.RoomTimeout > 0 && c.Server.CleanupInterval <= 0 {
		return fmt.Errorf("cleanupInterval must be positive when roomTimeout is set")
	}
	switch c.Server.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("logFormat must be text or json")
	}
	return nil
}

// Addr returns the host:port the server listens on.
func (c *ServerConfig) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
