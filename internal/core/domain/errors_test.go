package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrQueryRejected", ErrQueryRejected},
		{"ErrEngineFailed", ErrEngineFailed},
		{"ErrSessionSuperseded", ErrSessionSuperseded},
		{"ErrResolutionFailed", ErrResolutionFailed},
		{"ErrUnsupportedURI", ErrUnsupportedURI},
		{"ErrActivationFailed", ErrActivationFailed},
		{"ErrProviderUnavailable", ErrProviderUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrNotFound(t *testing.T) {
	assert.Equal(t, "not found", ErrNotFound.Error())
	assert.True(t, errors.Is(ErrNotFound, ErrNotFound))
	assert.False(t, errors.Is(ErrNotFound, ErrInvalidInput))
}

func TestErrors_AreDistinct(t *testing.T) {
	all := []error{
		ErrNotFound, ErrInvalidInput, ErrQueryRejected, ErrEngineFailed,
		ErrSessionSuperseded, ErrResolutionFailed, ErrUnsupportedURI,
		ErrActivationFailed, ErrProviderUnavailable,
	}

	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("%w: file:///tmp/x: %w", ErrActivationFailed, ErrNotFound)

	assert.ErrorIs(t, wrapped, ErrActivationFailed)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrEngineFailed)
	assert.Contains(t, wrapped.Error(), "activation failed")
}
