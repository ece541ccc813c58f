package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("validation failed", ValidationDetail{
		Field:   "items",
		Message: "cart must not be empty",
	})

	assert.Equal(t, "validation failed", err.Error())

	ve, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.Len(t, ve.Details, 1)

	_, ok = IsValidationError(stderrors.New("other"))
	assert.False(t, ok)
}

func TestOutOfStockError(t *testing.T) {
	err := NewOutOfStockError(7, "Widget", 5, 2)

	assert.Contains(t, err.Error(), "Widget")
	assert.Contains(t, err.Error(), "requested 5")
	assert.Contains(t, err.Error(), "available 2")

	oe, ok := IsOutOfStockError(err)
	assert.True(t, ok)
	assert.Equal(t, uint64(7), oe.ProductID)

	_, ok = IsOutOfStockError(NewNotFoundError("nope"))
	assert.False(t, ok)
}

func TestExternalError_Unwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewExternalError("payment provider unreachable", cause, true)

	assert.ErrorIs(t, err, cause)

	ee, ok := IsExternalError(err)
	assert.True(t, ok)
	assert.True(t, ee.Retryable)
}

func TestTypedHelpers(t *testing.T) {
	_, ok := IsNotFoundError(NewNotFoundError("missing"))
	assert.True(t, ok)

	_, ok = IsConflictError(NewConflictError("conflict"))
	assert.True(t, ok)

	_, ok = IsForbiddenError(NewForbiddenError("forbidden"))
	assert.True(t, ok)

	_, ok = IsDeadlockError(NewDeadlockError("deadlock"))
	assert.True(t, ok)

	_, ok = IsNotFoundError(NewConflictError("conflict"))
	assert.False(t, ok)
}

func TestInternalError(t *testing.T) {
	cause := stderrors.New("boom")
	err := NewInternalError("saving order", cause)

	assert.Equal(t, "saving order: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}
