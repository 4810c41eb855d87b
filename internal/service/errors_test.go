package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DavidHJones36/roguetwo-api/internal/domain"
)

func TestSentinelErrors(t *testing.T) {
	t.Run("batch errors are validation errors", func(t *testing.T) {
		assert.True(t, errors.Is(ErrNoIDs, domain.ErrValidation))
		assert.True(t, errors.Is(ErrTooManyIDs, domain.ErrValidation))
	})

	t.Run("sentinel errors are different", func(t *testing.T) {
		assert.False(t, errors.Is(ErrNoIDs, ErrTooManyIDs))
		assert.False(t, errors.Is(ErrTooManyIDs, ErrNoIDs))
	})
}
