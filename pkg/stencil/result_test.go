package stencil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResult(t *testing.T) {
	t.Run("resolved", func(t *testing.T) {
		r := Resolved("wax")
		assert.True(t, r.OK())
		assert.Equal(t, "wax", r.Value())
		assert.NoError(t, r.Err())
		assert.Equal(t, "wax", r.ValueOr("x"))
		assert.Equal(t, "resolved: wax", r.String())

		v, err := r.Unwrap()
		assert.NoError(t, err)
		assert.Equal(t, "wax", v)
	})

	t.Run("failed", func(t *testing.T) {
		boom := errors.New("boom")
		r := Failed(boom)
		assert.False(t, r.OK())
		assert.Empty(t, r.Value())
		assert.Same(t, boom, r.Err())
		assert.Equal(t, "x", r.ValueOr("x"))
		assert.Equal(t, "failed: boom", r.String())

		v, err := r.Unwrap()
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, v)
	})

	t.Run("zero value", func(t *testing.T) {
		var r Result
		assert.True(t, r.OK())
		assert.Empty(t, r.Value())
	})
}
