package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned by Await when the engine did not answer in time.
var ErrTimeout = errors.New("engine did not answer in time")

// Await posts one request and blocks for its callback. A ctx without a
// deadline is bounded by timeout; timeout <= 0 waits on ctx alone. done is
// the engine's Done channel.
func Await[T any](ctx context.Context, done <-chan struct{}, timeout time.Duration, post func(cb func(T))) (T, error) {
	var zero T
	if _, ok := ctx.Deadline(); !ok && timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// Buffered so a late answer never blocks the engine loop.
	ch := make(chan T, 1)
	post(func(v T) { ch <- v })

	select {
	case v := <-ch:
		return v, nil
	case <-done:
		return zero, ErrClosed
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
		}
		return zero, ctx.Err()
	}
}
