package models

import (
	"context"
)

// Future holds the pending result of a unit of work submitted to the scheduler.
type Future[T any] struct {
	c      <-chan T
	cancel context.CancelFunc
}

func NewFuture[T any](c <-chan T, cancel context.CancelFunc) *Future[T] {
	return &Future[T]{
		c:      c,
		cancel: cancel,
	}
}

// C returns the channel receiving the result. Exactly one value is delivered.
func (f *Future[T]) C() <-chan T {
	return f.c
}

// Stop cancels the context of the underlying work.
func (f *Future[T]) Stop() {
	f.cancel()
}
