package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")

	t.Run("nil error stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
	})

	t.Run("keeps cause reachable", func(t *testing.T) {
		err := Wrap(cause, CodeUnavailable, "load grants")
		assert.True(t, Is(err, cause))
		assert.True(t, HasCode(err, CodeUnavailable))
		assert.Equal(t, "load grants: connection refused", err.Error())
	})

	t.Run("outermost code wins through fmt wrapping", func(t *testing.T) {
		inner := New(CodeNotFound, "funder not found")
		outer := fmt.Errorf("recommend: %w", inner)
		assert.Equal(t, CodeNotFound, CodeOf(outer))
	})
}

func TestCodeOf_UncodedDefaultsToInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.False(t, HasCode(errors.New("boom"), CodeValidation))
}
