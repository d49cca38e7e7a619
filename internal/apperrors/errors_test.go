package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindNoActiveTrip, KindOf(NoActiveTrip("none set")))
	assert.Equal(t, KindConflict, KindOf(Conflict("duplicate")))
	assert.Equal(t, KindNotifier, KindOf(Notifier(errors.New("boom"), "send failed")))

	// Untyped errors surface as storage-layer problems.
	assert.Equal(t, KindDatabase, KindOf(errors.New("plain failure")))
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("during delete: %w", NotFound("rider not found"))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, IsNotFound(err))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Database(cause, "query failed")
	assert.ErrorIs(t, err, cause)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "validation_error: amount must be positive",
		Validation("amount must be positive").Error())

	withCause := Database(errors.New("timeout"), "query failed")
	assert.Contains(t, withCause.Error(), "database_error: query failed")
	assert.Contains(t, withCause.Error(), "timeout")
}

func TestIsHelpers(t *testing.T) {
	assert.True(t, IsConflict(Conflict("duplicate")))
	assert.False(t, IsConflict(NotFound("missing")))
	assert.True(t, IsKind(NoActiveTrip("none"), KindNoActiveTrip))
}
