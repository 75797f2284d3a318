package config

import "time"

// Config is the top-level configuration structure for quiver.
type Config struct {
	LogLevel         string `yaml:"logLevel,omitempty" env:"LOG_LEVEL"`
	WorkingDirectory string `yaml:"workingDirectory,omitempty" env:"WORKING_DIRECTORY"`

	Server     ServerConfig     `yaml:"server"`
	Extensions ExtensionsConfig `yaml:"extensions"`
	Store      StoreConfig      `yaml:"store"`
	Client     ClientConfig     `yaml:"client"`
	Cache      CacheConfig      `yaml:"cache"`
	Registry   RegistryConfig   `yaml:"registry"`
	Tracing    TracingConfig    `yaml:"tracing"`
	MCP        MCPConfig        `yaml:"mcp"`
}

// ServerConfig controls the HTTP listener serving the REST API and MCP.
type ServerConfig struct {
	Host string `yaml:"host,omitempty" env:"QUIVER_HOST"`
	Port int    `yaml:"port,omitempty" env:"QUIVER_PORT"`
}

// ExtensionsConfig controls which registered extensions are loaded.
type ExtensionsConfig struct {
	Disabled []string `yaml:"disabled,omitempty" env:"DISABLED_EXTENSIONS" envSeparator:","`
	// Settings are passed to every extension. Agent settings override them
	// key by key.
	Settings map[string]any `yaml:"settings,omitempty"`
}

// Store drivers.
const (
	StoreDriverFile     = "file"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// StoreConfig selects the chain and user store.
type StoreConfig struct {
	Driver      string `yaml:"driver,omitempty" env:"STORE_DRIVER"`
	DSN         string `yaml:"dsn,omitempty" env:"DATABASE_URL"`
	DefaultUser string `yaml:"defaultUser,omitempty" env:"DEFAULT_USER"`
	// Watch reloads the registry when chain files change (file driver only).
	Watch bool `yaml:"watch,omitempty" env:"STORE_WATCH"`
}

// ClientConfig points at the orchestration REST API that runs chains and
// serves prompt metadata.
type ClientConfig struct {
	APIURL  string        `yaml:"apiUrl,omitempty" env:"API_URL"`
	APIKey  string        `yaml:"apiKey,omitempty" env:"API_KEY"`
	Timeout time.Duration `yaml:"timeout,omitempty" env:"API_TIMEOUT"`
}

// CacheConfig configures the Redis prompt-argument cache. An empty RedisURL
// disables caching.
type CacheConfig struct {
	RedisURL string        `yaml:"redisUrl,omitempty" env:"REDIS_URL"`
	TTL      time.Duration `yaml:"ttl,omitempty" env:"CACHE_TTL"`
}

// RegistryConfig controls the command registry cache.
type RegistryConfig struct {
	// RefreshInterval bounds the age of the cached command list. Zero keeps
	// the list until it is explicitly invalidated.
	RefreshInterval time.Duration `yaml:"refreshInterval,omitempty" env:"REGISTRY_REFRESH_INTERVAL"`
}

// TracingConfig toggles the stdout span exporter.
type TracingConfig struct {
	Enabled bool `yaml:"enabled,omitempty" env:"QUIVER_TRACING"`
}

// MCPConfig controls the MCP endpoint. Agent selects whose available
// commands are exposed as tools.
type MCPConfig struct {
	Enabled bool   `yaml:"enabled,omitempty" env:"QUIVER_MCP_ENABLED"`
	Agent   string `yaml:"agent,omitempty" env:"QUIVER_MCP_AGENT"`
}
