package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration using Viper.
// Priority order: Environment variables > Config file > Defaults
func LoadConfig(configPath string) (*ServerConfig, error) {
	v := viper.New()

	v.SetConfigName("server")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/impostor")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Short environment names in addition to IMPOSTOR_SERVER_* style keys
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.host", "HOST")
	v.BindEnv("server.databaseurl", "DATABASE_URL")
	v.BindEnv("server.loglevel", "LOG_LEVEL")
	v.BindEnv("server.logformat", "LOG_FORMAT")
	v.BindEnv("server.ratelimit", "RATE_LIMIT")
	v.BindEnv("server.ratelimitburst", "RATE_LIMIT_BURST")
	v.BindEnv("server.maxrequestsize", "MAX_REQUEST_SIZE")
	v.BindEnv("server.roomtimeout", "ROOM_TIMEOUT")

	defaults := DefaultConfig().Server
	v.SetDefault("server.host", defaults.Host)
	v.SetDefault("server.port", defaults.Port)
	v.SetDefault("server.readtimeout", defaults.ReadTimeout)
	v.SetDefault("server.writetimeout", defaults.WriteTimeout)
	v.SetDefault("server.idletimeout", defaults.IdleTimeout)
	v.SetDefault("server.shutdowntimeout", defaults.ShutdownTimeout)
	v.SetDefault("server.roomtimeout", defaults.RoomTimeout)
	v.SetDefault("server.cleanupinterval", defaults.CleanupInterval)
	v.SetDefault("server.ratelimit", defaults.RateLimit)
	v.SetDefault("server.ratelimitburst", defaults.RateLimitBurst)
	v.SetDefault("server.maxrequestsize", defaults.MaxRequestSize)
	v.SetDefault("server.loglevel", defaults.LogLevel)
	v.SetDefault("server.logformat", defaults.LogFormat)

	// The config file is optional; env vars and defaults are enough.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !strings.Contains(err.Error(), "no such file or directory") {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg := &ServerConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
