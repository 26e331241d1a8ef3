package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("service: %w", NewValidationError(FieldError{Field: "location", Message: "is required"}))

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))

	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, "location", vErr.Fields[0].Field)
	assert.Equal(t, "validation failed: location: is required", vErr.Error())
}

func TestIncidentPatch_IsEmpty(t *testing.T) {
	assert.True(t, IncidentPatch{}.IsEmpty())

	severity := "low"
	assert.False(t, IncidentPatch{SeverityLevel: &severity}.IsEmpty())
}
