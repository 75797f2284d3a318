package app

import (
	"quiver/internal/config"
)

// Config holds the application bootstrap settings.
type Config struct {
	Debug bool

	// Silent discards log output. CLI commands that print structured
	// results use it to keep stdout clean.
	Silent bool

	// ConfigPath is the configuration directory. Empty means
	// ~/.config/quiver.
	ConfigPath string

	// Version is reported by the health endpoint and the MCP server.
	Version string

	// QuiverConfig is loaded from ConfigPath when nil.
	QuiverConfig *config.Config
}

// NewConfig creates a new application configuration
func NewConfig(debug, silent bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		Silent:     silent,
		ConfigPath: configPath,
	}
}

func (c *Config) configDir() string {
	if c.ConfigPath != "" {
		return c.ConfigPath
	}
	return config.GetDefaultConfigPathOrPanic()
}
