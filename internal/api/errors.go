package api

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError represents a resource not found error with contextual information.
// It is used consistently for unknown commands, chains, extensions and users.
type NotFoundError struct {
	// ResourceType categorizes the missing resource
	// (e.g., "command", "chain", "extension", "user")
	ResourceType string

	// ResourceName is the identifier that could not be resolved
	ResourceName string

	// Message overrides the default message when set
	Message string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s not found", e.ResourceType, e.ResourceName)
}

// IsNotFound checks if an error is, or wraps, a NotFoundError.
//
// Example:
//
//	entry, err := reg.FindCommand(ctx, "Add Numbers")
//	if api.IsNotFound(err) {
//	    return fmt.Sprintf("Command %s not found", name), nil
//	}
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// NewNotFoundError creates a new NotFoundError with the specified resource type and name.
func NewNotFoundError(resourceType, resourceName string) *NotFoundError {
	return &NotFoundError{
		ResourceType: resourceType,
		ResourceName: resourceName,
	}
}

// Specific NotFoundError constructors for each resource type.
var (
	NewCommandNotFoundError = func(name string) *NotFoundError {
		return NewNotFoundError("command", name)
	}

	NewChainNotFoundError = func(name string) *NotFoundError {
		return NewNotFoundError("chain", name)
	}

	NewExtensionNotFoundError = func(name string) *NotFoundError {
		return NewNotFoundError("extension", name)
	}

	NewUserNotFoundError = func(name string) *NotFoundError {
		return NewNotFoundError("user", name)
	}

	NewAgentNotFoundError = func(name string) *NotFoundError {
		return NewNotFoundError("agent", name)
	}
)

// ChainCycleError is returned when resolving a chain re-enters a chain that
// is already being resolved.
type ChainCycleError struct {
	// Path is the chain of names from the outermost chain to the repeated one.
	Path []string
}

func (e *ChainCycleError) Error() string {
	return fmt.Sprintf("chain cycle detected: %s", strings.Join(e.Path, " -> "))
}

// IsChainCycle checks if an error is, or wraps, a ChainCycleError.
func IsChainCycle(err error) bool {
	var cycleErr *ChainCycleError
	return errors.As(err, &cycleErr)
}
