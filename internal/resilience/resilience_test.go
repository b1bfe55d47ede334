package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry(t *testing.T) {
	errBoom := errors.New("boom")

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), 3, time.Millisecond, func(context.Context) error {
			calls++
			if calls < 3 {
				return errBoom
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after attempts", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), 2, time.Millisecond, func(context.Context) error {
			calls++
			return errBoom
		})

		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, 2, calls)
	})

	t.Run("permanent errors stop immediately", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), 5, time.Millisecond, func(context.Context) error {
			calls++
			return &Permanent{Err: errBoom}
		})

		assert.Equal(t, errBoom, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("context cancellation stops waiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := Retry(ctx, 5, time.Hour, func(context.Context) error {
			calls++
			cancel()
			return errBoom
		})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestCircuitBreaker(t *testing.T) {
	errBoom := errors.New("boom")
	fail := func() error { return errBoom }
	ok := func() error { return nil }

	cb := NewCircuitBreaker(2, 20*time.Millisecond, nil)

	assert.ErrorIs(t, cb.Execute(fail), errBoom)
	assert.Equal(t, StateClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(fail), errBoom)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)

	time.Sleep(30 * time.Millisecond)
	require.NoError(t, cb.Execute(ok))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond, nil)

	_ = cb.Execute(func() error { return errors.New("down") })
	time.Sleep(15 * time.Millisecond)
	_ = cb.Execute(func() error { return errors.New("still down") })

	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_IgnoresUntrippedErrors(t *testing.T) {
	errClient := errors.New("bad request")
	cb := NewCircuitBreaker(1, time.Minute, func(err error) bool { return !errors.Is(err, errClient) })

	for range 3 {
		assert.ErrorIs(t, cb.Execute(func() error { return errClient }), errClient)
	}

	assert.Equal(t, StateClosed, cb.State())
}
