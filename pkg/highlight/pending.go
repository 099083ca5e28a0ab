package highlight

import (
	"context"
	"fmt"
)

// Pending is the result of a lookup that completes in the background.
type Pending[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newPending[T any]() *Pending[T] {
	return &Pending[T]{done: make(chan struct{})}
}

// Resolved returns a Pending that is already complete.
func Resolved[T any](value T, err error) *Pending[T] {
	p := newPending[T]()
	p.resolve(value, err)
	return p
}

func (p *Pending[T]) resolve(value T, err error) {
	p.value, p.err = value, err
	close(p.done)
}

// Done is closed once the lookup has completed.
func (p *Pending[T]) Done() <-chan struct{} {
	return p.done
}

// Ready returns the value without blocking. It reports false while the
// lookup is still running or when it failed.
func (p *Pending[T]) Ready() (T, bool) {
	select {
	case <-p.done:
		return p.value, p.err == nil
	default:
		var zero T
		return zero, false
	}
}

// Err returns the lookup error, or nil while it is still running.
func (p *Pending[T]) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Wait blocks until the lookup completes or ctx is done.
func (p *Pending[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("waiting for lookup: %w", ctx.Err())
	}
}
