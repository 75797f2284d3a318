package config

import (
	"fmt"
	"strings"

	"quiver/internal/api"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// ValidateRequired checks if a required string field is not empty
func ValidateRequired(field, value, entityType string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("is required for %s", entityType),
		}
	}
	return nil
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// FormatValidationError creates a consistent validation error message
func FormatValidationError(entityType, entityName string, err error) error {
	if err == nil {
		return nil
	}

	if entityName != "" {
		return fmt.Errorf("validation failed for %s '%s': %w", entityType, entityName, err)
	}
	return fmt.Errorf("validation failed for %s: %w", entityType, err)
}

// Validate checks a fully loaded configuration.
func Validate(cfg Config) error {
	var errs ValidationErrors

	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		errs.Add("server.port", "must be between 0 and 65535", cfg.Server.Port)
	}

	if err := ValidateOneOf("store.driver", cfg.Store.Driver,
		[]string{StoreDriverFile, StoreDriverPostgres, StoreDriverMemory}); err != nil {
		errs = append(errs, err.(ValidationError))
	}
	if cfg.Store.Driver == StoreDriverPostgres {
		if err := ValidateRequired("store.dsn", cfg.Store.DSN, "the postgres store"); err != nil {
			errs = append(errs, err.(ValidationError))
		}
	}
	if err := ValidateRequired("store.defaultUser", cfg.Store.DefaultUser, "the chain store"); err != nil {
		errs = append(errs, err.(ValidationError))
	}

	if cfg.Client.Timeout < 0 {
		errs.Add("client.timeout", "must not be negative", cfg.Client.Timeout.String())
	}
	if cfg.Cache.TTL < 0 {
		errs.Add("cache.ttl", "must not be negative", cfg.Cache.TTL.String())
	}
	if cfg.Registry.RefreshInterval < 0 {
		errs.Add("registry.refreshInterval", "must not be negative", cfg.Registry.RefreshInterval.String())
	}
	if cfg.MCP.Enabled && cfg.MCP.Agent == "" {
		errs.Add("mcp.agent", "is required when MCP is enabled")
	}

	if errs.HasErrors() {
		return FormatValidationError("config", "", errs)
	}
	return nil
}

// ValidateAgent checks an agent definition before it is saved or used.
func ValidateAgent(agent api.AgentConfig) error {
	var errs ValidationErrors
	if err := ValidateRequired("name", agent.Name, "agent"); err != nil {
		errs = append(errs, err.(ValidationError))
	}
	if len(agent.Name) > 100 {
		errs.Add("name", "must not exceed 100 characters", agent.Name)
	}
	if errs.HasErrors() {
		return FormatValidationError("agent", agent.Name, errs)
	}
	return nil
}

