package config

import (
	"time"

	"quiver/internal/api"
)

// DefaultUser owns the global chains visible to every user.
const DefaultUser = "USER"

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() Config {
	return Config{
		LogLevel:         "INFO",
		WorkingDirectory: "./WORKSPACE",
		Server: ServerConfig{
			Host: "localhost",
			Port: 8091,
		},
		Store: StoreConfig{
			Driver:      StoreDriverFile,
			DefaultUser: DefaultUser,
		},
		Client: ClientConfig{
			APIURL:  "http://localhost:7437",
			Timeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			TTL: 5 * time.Minute,
		},
		Registry: RegistryConfig{
			RefreshInterval: time.Minute,
		},
		MCP: MCPConfig{
			Enabled: true,
			Agent:   api.DefaultAgentName,
		},
	}
}
