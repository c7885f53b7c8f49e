package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "mapty/internal/platform/errors"
)

func TestValidationErrorUnwrapsToSentinels(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("submit: %w", apperrors.NewValidationError("distance", "must be positive"))

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.NotErrorIs(t, err, apperrors.ErrNoPendingLocation)

	var verr *apperrors.ValidationError
	if assert.True(t, errors.As(err, &verr)) {
		assert.Equal(t, "distance", verr.Field)
		assert.Equal(t, "must be positive", verr.Reason)
	}
	assert.Equal(t, "submit: validation failed: distance must be positive", err.Error())

	pending := &apperrors.ValidationError{Reason: "pick a spot on the map first", Err: apperrors.ErrNoPendingLocation}
	assert.ErrorIs(t, pending, apperrors.ErrNoPendingLocation)
	assert.ErrorIs(t, pending, apperrors.ErrValidation)
	assert.Equal(t, "validation failed: pick a spot on the map first", pending.Error())
}
