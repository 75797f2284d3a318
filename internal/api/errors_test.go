package api

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	err := NewCommandNotFoundError("Add Numbers")
	assert.Equal(t, "command Add Numbers not found", err.Error())
	assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", err)))
	assert.False(t, IsNotFound(fmt.Errorf("other")))

	custom := &NotFoundError{ResourceType: "chain", ResourceName: "x", Message: "no such chain"}
	assert.Equal(t, "no such chain", custom.Error())
}

func TestChainCycleError(t *testing.T) {
	err := &ChainCycleError{Path: []string{"a", "b", "a"}}
	assert.Equal(t, "chain cycle detected: a -> b -> a", err.Error())
	assert.True(t, IsChainCycle(fmt.Errorf("resolve: %w", err)))
	assert.False(t, IsNotFound(err))
}
