// Package config handles daemon configuration loading.
package config

import (
	"fmt"
	"time"

	"github.com/Narsst/Hitbox-Generation-Machine/internal/hitbox"
)

// Config holds all daemon settings.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Database DBConfig      `yaml:"database"`
	Engine   EngineConfig  `yaml:"engine"`
	Logging  LoggingConfig `yaml:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// DBConfig holds run-history database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// EngineConfig holds decomposition engine settings.
type EngineConfig struct {
	Seed        int64         `yaml:"seed"`
	DefaultTier string        `yaml:"default_tier"`
	PaceDelay   time.Duration `yaml:"pace_delay"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen: ":8080",
		},
		Database: DBConfig{
			Path: "hitbox.db",
		},
		Engine: EngineConfig{
			Seed:        hitbox.DefaultSeed,
			DefaultTier: string(hitbox.TierHigh),
			PaceDelay:   0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values that would otherwise fail deep inside the
// engine or server startup.
func (c *Config) Validate() error {
	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen must not be empty")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if _, err := hitbox.ParseTier(c.Engine.DefaultTier); err != nil {
		return fmt.Errorf("engine.default_tier: %w", err)
	}
	if c.Engine.PaceDelay < 0 {
		return fmt.Errorf("engine.pace_delay must not be negative")
	}
	return nil
}
