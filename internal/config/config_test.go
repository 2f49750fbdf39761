package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("unexpected default addr: %s", cfg.Addr())
	}
	if cfg.Server.WriteTimeout != 0 {
		t.Error("write timeout must default to 0 so SSE streams stay open")
	}
	if cfg.Server.DatabaseURL != "" {
		t.Error("database url must default to empty (in-memory store)")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr bool
	}{
		{"defaults", func(c *ServerConfig) {}, false},
		{"missing port", func(c *ServerConfig) { c.Server.Port = "" }, true},
		{"missing host", func(c *ServerConfig) { c.Server.Host = "" }, true},
		{"zero rate limit", func(c *ServerConfig) { c.Server.RateLimit = 0 }, true},
		{"zero burst", func(c *ServerConfig) { c.Server.RateLimitBurst = 0 }, true},
		{"zero request size", func(c *ServerConfig) { c.Server.MaxRequestSize = 0 }, true},
		{"negative room timeout", func(c *ServerConfig) { c.Server.RoomTimeout = -time.Hour }, true},
		{"expiry without sweep interval", func(c *ServerConfig) {
			c.Server.RoomTimeout = time.Hour
			c.Server.CleanupInterval = 0
		}, true},
		{"expiry disabled", func(c *ServerConfig) {
			c.Server.RoomTimeout = 0
			c.Server.CleanupInterval = 0
		}, false},
		{"bad log format", func(c *ServerConfig) { c.Server.LogFormat = "xml" }, true},
		{"json log format", func(c *ServerConfig) { c.Server.LogFormat = "json" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.RoomTimeout != 24*time.Hour {
		t.Errorf("expected default room timeout 24h, got %s", cfg.Server.RoomTimeout)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/impostor")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("ROOM_TIMEOUT", "2h")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("PORT not applied: %s", cfg.Server.Port)
	}
	if cfg.Server.DatabaseURL != "postgres://localhost/impostor" {
		t.Errorf("DATABASE_URL not applied: %s", cfg.Server.DatabaseURL)
	}
	if cfg.Server.LogFormat != "json" {
		t.Errorf("LOG_FORMAT not applied: %s", cfg.Server.LogFormat)
	}
	if cfg.Server.RoomTimeout != 2*time.Hour {
		t.Errorf("ROOM_TIMEOUT not applied: %s", cfg.Server.RoomTimeout)
	}
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	content := []byte(`
server:
  port: "3000"
  logLevel: debug
  rateLimit: 50
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "3000" {
		t.Errorf("file port not applied: %s", cfg.Server.Port)
	}
	if cfg.Server.LogLevel != "debug" {
		t.Errorf("file log level not applied: %s", cfg.Server.LogLevel)
	}
	if cfg.Server.RateLimit != 50 {
		t.Errorf("file rate limit not applied: %v", cfg.Server.RateLimit)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("unset keys should keep defaults, got host %s", cfg.Server.Host)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Setenv("RATE_LIMIT", "-1")

	if _, err := LoadConfig(""); err == nil {
		t.Error("expected error for negative rate limit")
	}
}
