package engine

import (
	"context"
	"sync"
)

// Token serializes commands on one document context. Only the holder may
// mutate the native selection; waiters are admitted in arrival order.
type Token struct {
	ch chan struct{}
}

// NewToken returns an unheld token.
func NewToken() *Token {
	return &Token{ch: make(chan struct{}, 1)}
}

// Acquire blocks until the token is free or ctx is done.
// The returned release func is idempotent.
func (t *Token) Acquire(ctx context.Context) (func(), error) {
	select {
	case t.ch <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	var once sync.Once
	return func() {
		once.Do(func() { <-t.ch })
	}, nil
}

// Held reports whether someone holds the token right now.
func (t *Token) Held() bool {
	return len(t.ch) == 1
}
