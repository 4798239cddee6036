package caret

import (
	"context"

	"github.com/zjrosen/caret/internal/engine"
)

func await[T any](ctx context.Context, c *Controller, post func(cb func(T))) (T, error) {
	return engine.Await(ctx, c.eng.Done(), c.timeout, post)
}
