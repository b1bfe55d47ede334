package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Permanent marks an error that must not be retried.
type Permanent struct{ Err error }

func (p *Permanent) Error() string { return p.Err.Error() }
func (p *Permanent) Unwrap() error { return p.Err }

// Retry runs fn up to attempts times, sleeping delay between attempts.
// It stops early on success, on a *Permanent error, or when ctx is done.
// Only use it for idempotent calls.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func(context.Context) error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			slog.Info("Retrying request...", "attempt", i+1)
			select {
			case <-ctx.Done():
				return fmt.Errorf("retry aborted after %d attempts: %w", i, errors.Join(ctx.Err(), err))
			case <-time.After(delay):
			}
		}

		err = fn(ctx)
		if err == nil {
			return nil
		}
		var p *Permanent
		if errors.As(err, &p) {
			return p.Err
		}
	}
	return fmt.Errorf("after %d attempts, last error: %w", attempts, err)
}
