package shared_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factory-planner/internal/domain/shared"
)

func TestCatalogFormatError(t *testing.T) {
	// Arrange
	err := shared.NewCatalogFormatError("recipes.json", "iron_ingot", "unknown resource id iron_ore")

	// Act
	wrapped := fmt.Errorf("failed to read catalog document: %w", err)

	// Assert
	assert.Equal(t, `recipes.json: entry "iron_ingot": unknown resource id iron_ore`, err.Error())

	var formatErr *shared.CatalogFormatError
	require.True(t, errors.As(wrapped, &formatErr))
	assert.Equal(t, "recipes.json", formatErr.Source)
	assert.Equal(t, "iron_ingot", formatErr.Entry)
	assert.Equal(t, "unknown resource id iron_ore", formatErr.Message)
}

func TestValidationError(t *testing.T) {
	err := shared.NewValidationError("cycle_time", "must be positive")

	assert.Equal(t, "cycle_time: must be positive", err.Error())
	assert.Equal(t, "cycle_time", err.Field)
}
