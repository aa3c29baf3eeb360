package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("Error returns formatted string", func(t *testing.T) {
		err := New(ErrCodeNotFound, "Consent not found")
		assert.Equal(t, "NOT_FOUND: Consent not found", err.Error())
	})

	t.Run("Error with cause includes cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Wrap(ErrCodeInternal, "Storage error", cause)
		assert.Contains(t, err.Error(), "INTERNAL_ERROR")
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("WithCause adds cause to error", func(t *testing.T) {
		cause := errors.New("consent expired")
		err := Forbidden("Access denied").WithCause(cause)
		assert.Equal(t, cause, err.Unwrap())
		assert.Equal(t, "Access denied", err.Message)
	})

	t.Run("WithDetails adds details to error", func(t *testing.T) {
		details := map[string]string{"field": "scopes"}
		err := Validation("bad scopes").WithDetails(details)
		assert.Equal(t, details, err.Details)
	})
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name         string
		constructor  func() *AppError
		expectedCode ErrorCode
	}{
		{"Unauthenticated", func() *AppError { return Unauthenticated("test") }, ErrCodeUnauthenticated},
		{"Forbidden", func() *AppError { return Forbidden("test") }, ErrCodeForbidden},
		{"NotFound", func() *AppError { return NotFound("Consent") }, ErrCodeNotFound},
		{"Validation", func() *AppError { return Validation("test") }, ErrCodeValidation},
		{"InvalidInput", func() *AppError { return InvalidInput("scope", "unknown") }, ErrCodeValidation},
		{"State", func() *AppError { return State("test") }, ErrCodeState},
		{"Conflict", func() *AppError { return Conflict("test") }, ErrCodeConflict},
		{"Internal", func() *AppError { return Internal("test") }, ErrCodeInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.constructor()
			assert.Equal(t, tc.expectedCode, err.Code)
			assert.NotEmpty(t, err.Message)
		})
	}
}

func TestGetCode(t *testing.T) {
	t.Run("returns code for wrapped AppError", func(t *testing.T) {
		err := fmt.Errorf("revoke: %w", State("already revoked"))
		assert.Equal(t, ErrCodeState, GetCode(err))
		assert.True(t, HasCode(err, ErrCodeState))
	})

	t.Run("returns ErrCodeInternal for standard error", func(t *testing.T) {
		err := errors.New("standard error")
		assert.Equal(t, ErrCodeInternal, GetCode(err))
		assert.False(t, HasCode(err, ErrCodeNotFound))
	})
}

func TestAsAppError(t *testing.T) {
	t.Run("extracts AppError", func(t *testing.T) {
		original := NotFound("Planned session")
		extracted, ok := AsAppError(original)
		assert.True(t, ok)
		assert.Equal(t, original, extracted)
		assert.Equal(t, "Planned session not found", extracted.Message)
	})

	t.Run("returns false for non-AppError", func(t *testing.T) {
		extracted, ok := AsAppError(errors.New("standard error"))
		assert.False(t, ok)
		assert.Nil(t, extracted)
	})
}
