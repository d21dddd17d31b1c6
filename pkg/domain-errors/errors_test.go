package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches outer code", func(t *testing.T) {
		err := New(CodeStaleMatch, "donor removed")
		assert.True(t, HasCode(err, CodeStaleMatch))
		assert.False(t, HasCode(err, CodeNotFound))
	})

	t.Run("matches wrapped code", func(t *testing.T) {
		inner := New(CodeNotFound, "match not found")
		outer := Wrap(inner, CodeInternal, "commit failed")
		assert.True(t, HasCode(outer, CodeNotFound))
		assert.True(t, HasCode(outer, CodeInternal))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeInternal, "load donors")
	require.Error(t, err)
	assert.True(t, Is(err, cause))
	assert.Contains(t, err.Error(), "load donors")
	assert.Nil(t, Wrap(nil, CodeInternal, "noop"))
}
