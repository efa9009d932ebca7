package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithTx(t *testing.T) {
	t.Run("no runner", func(t *testing.T) {
		called := false
		err := (&Container{}).WithTx(context.Background(), func(*Container) error {
			called = true
			return nil
		})
		assert.Error(t, err)
		assert.False(t, called)
	})

	t.Run("runner error is returned", func(t *testing.T) {
		boom := errors.New("boom")
		c := &Container{}
		c.RunTx = func(ctx context.Context, fn func(tx *Container) error) error { return fn(c) }

		err := c.WithTx(context.Background(), func(tx *Container) error {
			assert.Same(t, c, tx)
			return boom
		})
		assert.ErrorIs(t, err, boom)
	})
}
