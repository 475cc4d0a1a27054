package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncubatorError_IsMatchesCategory(t *testing.T) {
	err := NewInsufficientPopulationError("reconciler", "Reconcile", 1)

	assert.True(t, stderrors.Is(err, ErrInsufficientPopulation))
	assert.False(t, stderrors.Is(err, ErrEmptySpecimen))
	assert.Equal(t, 1, err.Context["size"])
}

func TestIncubatorError_IsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("advance generation 3: %w", NewEmptySpecimenError("mutation", "Destructive"))

	assert.True(t, stderrors.Is(err, ErrEmptySpecimen))
	assert.Equal(t, ErrorCategoryEmptySpecimen, CategoryOf(err))
}

func TestIncubatorError_Message(t *testing.T) {
	err := NewConfigurationError("config", "SetMutationChance", "mutation rate must be within [0,1], got 1.5")

	assert.Equal(t, "[INVALID_CONFIGURATION:config] SetMutationChance: mutation rate must be within [0,1], got 1.5", err.Error())
	assert.True(t, err.IsContractViolation())
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, ErrorCategoryOracle, "engine", "Imprint"))

	underlying := stderrors.New("scoring backend down")
	err := NewOracleError("engine", "Imprint", underlying)
	require.NotNil(t, err)

	assert.ErrorIs(t, err, underlying)
	assert.False(t, err.IsContractViolation())
	assert.Contains(t, err.Error(), "scoring backend down")
}

func TestCategoryOf_NonIncubatorError(t *testing.T) {
	assert.Equal(t, ErrorCategory(""), CategoryOf(stderrors.New("plain")))
	assert.Equal(t, ErrorCategory(""), CategoryOf(nil))
}

func TestErrorStats(t *testing.T) {
	stats := NewErrorStats(2)

	stats.RecordError(NewEmptySpecimenError("mutation", "Destructive"))
	stats.RecordError(NewEmptySpecimenError("mutation", "Destructive"))
	stats.RecordError(NewConfigurationError("config", "Validate", "gen size"))

	assert.Equal(t, 3, stats.TotalErrors)
	assert.Len(t, stats.RecentErrors, 2)
	assert.InDelta(t, 2.0/3.0, stats.GetErrorRate(ErrorCategoryEmptySpecimen), 1e-9)
	assert.Equal(t, 0.0, NewErrorStats(1).GetErrorRate(ErrorCategoryOracle))
}
