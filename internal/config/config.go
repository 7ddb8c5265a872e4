package config

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port    string `env:"PORT" env-default:"4000" env-description:"HTTP port for the web app"`
	Log     LogConfig
	Roster  RosterConfig
	View    ViewConfig
	Metrics MetricsConfig
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
	Format string `env:"LOG_FORMAT" env-default:"text" env-description:"text or json"`
}

// ViewConfig controls the page shell.
type ViewConfig struct {
	HTMXSrc     string `env:"HTMX_SRC" env-default:"https://unpkg.com/htmx.org@1.9.12" env-description:"URL of the htmx script"`
	LiveUpdates bool   `env:"LIVE_UPDATES_ENABLED" env-default:"true" env-description:"push roster changes to open pages over WebSocket"`
}

// Load reads configuration from environment variables with sensible defaults.
// Malformed values are an error; non-positive ports and timeouts fall back to defaults.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// Usage writes the list of supported environment variables.
func Usage(w io.Writer) {
	var cfg Config
	header := "Environment variables:"
	cleanenv.FUsage(w, &cfg, &header)()
}

func (c *Config) normalize() {
	c.Port = portOrDefault(c.Port, defaultPort)
	c.Metrics.Port = portOrDefault(c.Metrics.Port, defaultMetricsPort)
	if c.Roster.Timeout < 0 {
		c.Roster.Timeout = 0
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = defaultServiceName
	}
}

func portOrDefault(raw, fallback string) string {
	port, err := strconv.Atoi(raw)
	if err != nil || port <= 0 || port > 65535 {
		return fallback
	}
	return raw
}
