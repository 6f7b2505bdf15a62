package sp

import (
	"context"
	"fmt"
	"sync"
)

// Pending is the future of an operation. Operations on unbatched handles are
// resolved before the action method returns; batched ones resolve when the
// batch executes. A Pending resolves exactly once.
type Pending[T any] struct {
	done      chan struct{}
	mu        sync.Mutex
	resolved  bool
	value     T
	err       error
	callbacks []func()
}

func newPending[T any]() *Pending[T] {
	return &Pending[T]{done: make(chan struct{})}
}

func resolvedPending[T any](value T, err error) *Pending[T] {
	p := newPending[T]()
	p.resolve(value, err)

	return p
}

func rejectedPending[T any](err error) *Pending[T] {
	var zero T

	return resolvedPending(zero, err)
}

// resolve settles the future; later calls are ignored.
func (p *Pending[T]) resolve(value T, err error) {
	p.mu.Lock()
	if p.resolved {
		p.mu.Unlock()

		return
	}

	p.resolved = true
	p.value = value
	p.err = err
	callbacks := p.callbacks
	p.callbacks = nil
	close(p.done)
	p.mu.Unlock()

	for _, callback := range callbacks {
		callback()
	}
}

// onResolve runs fn once the future settled, immediately when it already has.
func (p *Pending[T]) onResolve(fn func()) {
	p.mu.Lock()
	if !p.resolved {
		p.callbacks = append(p.callbacks, fn)
		p.mu.Unlock()

		return
	}
	p.mu.Unlock()

	fn()
}

// Done is closed once the operation resolved.
func (p *Pending[T]) Done() <-chan struct{} {
	return p.done
}

// Result returns the outcome without blocking. It reports ErrPending while
// the owning batch has not been executed.
func (p *Pending[T]) Result() (T, error) {
	select {
	case <-p.done:
		return p.value, p.err
	default:
		var zero T

		return zero, ErrPending
	}
}

// Wait blocks until the operation resolved or ctx is done.
func (p *Pending[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		var zero T

		return zero, fmt.Errorf("waiting for operation: %w", ctx.Err())
	}
}

// mapPending derives a future whose value is fn applied to src's value.
// Errors of src pass through untouched.
func mapPending[S, T any](src *Pending[S], fn func(S) (T, error)) *Pending[T] {
	dst := newPending[T]()

	src.onResolve(func() {
		value, err := src.value, src.err
		if err != nil {
			var zero T

			dst.resolve(zero, err)

			return
		}

		dst.resolve(fn(value))
	})

	return dst
}

// wrapPending annotates the error of src, if any.
func wrapPending[T any](src *Pending[T], format string) *Pending[T] {
	dst := newPending[T]()

	src.onResolve(func() {
		if src.err != nil {
			dst.resolve(src.value, fmt.Errorf(format+": %w", src.err))

			return
		}

		dst.resolve(src.value, nil)
	})

	return dst
}
