package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quiver/pkg/logging"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/quiver"
	configFileName = "config.yaml"
)

// GetUserConfigDir returns ~/.config/quiver.
func GetUserConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

func GetDefaultConfigPathOrPanic() string {
	dir, err := GetUserConfigDir()
	if err != nil {
		panic(err)
	}
	return dir
}

// LoadConfig loads configuration from a single specified directory.
// The directory should contain config.yaml and subdirectories for other
// entity types. Environment variables override file values.
func LoadConfig(configPath string) (Config, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Info("Config", "No config.yaml found at %s, using defaults", configFilePath)
	case err != nil:
		logging.Error("Config", err, "Error loading config.yaml from %s", configFilePath)
		return Config{}, err
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
		}
		logging.Info("Config", "Loaded configuration from %s", configFilePath)
	}

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	config.Extensions.Disabled = normalizeNames(config.Extensions.Disabled)

	if config.Store.DSN != "" && config.Store.Driver == StoreDriverFile {
		config.Store.Driver = StoreDriverPostgres
	}

	if err := Validate(config); err != nil {
		return Config{}, err
	}
	return config, nil
}

func normalizeNames(names []string) []string {
	var out []string
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
