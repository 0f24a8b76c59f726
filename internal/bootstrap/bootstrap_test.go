package bootstrap

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_Run(t *testing.T) {
	t.Run("run returns nil", func(t *testing.T) {
		app := New()
		err := app.Run(context.Background(), func(ctx context.Context) error {
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("run returns error", func(t *testing.T) {
		app := New()
		want := errors.New("run failed")
		err := app.Run(context.Background(), func(ctx context.Context) error {
			return want
		})
		assert.ErrorIs(t, err, want)
	})

	t.Run("shutdown hooks run exactly once after normal completion", func(t *testing.T) {
		app := New()
		var calls int

		app.AddShutdownHook(func(ctx context.Context) error {
			calls++
			return nil
		})

		err := app.Run(context.Background(), func(ctx context.Context) error {
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("run error and hook error are both reported", func(t *testing.T) {
		app := New()
		runErr := errors.New("run failed")
		hookErr := errors.New("close failed")

		app.AddShutdownHook(func(ctx context.Context) error {
			return hookErr
		})

		err := app.Run(context.Background(), func(ctx context.Context) error {
			return runErr
		})
		assert.ErrorIs(t, err, runErr)
		assert.ErrorIs(t, err, hookErr)
	})

	t.Run("shutdown hooks run in LIFO order on context cancel", func(t *testing.T) {
		app := New()
		var mu sync.Mutex
		var order []string

		app.AddShutdownHook(func(ctx context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, "first")
			return nil
		})
		app.AddShutdownHook(func(ctx context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, "second")
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		err := app.Run(ctx, func(ctx context.Context) error {
			cancel()
			<-ctx.Done()
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"second", "first"}, order)
	})

	t.Run("shutdown hook errors are joined", func(t *testing.T) {
		app := New()
		hookErr := errors.New("close failed")
		app.AddShutdownHook(func(ctx context.Context) error {
			return hookErr
		})

		ctx, cancel := context.WithCancel(context.Background())
		err := app.Run(ctx, func(ctx context.Context) error {
			cancel()
			<-ctx.Done()
			return nil
		})
		assert.ErrorIs(t, err, hookErr)
	})
}
