package dispatch

import (
	"context"
	"sync/atomic"

	"github.com/segmentio/ksuid"
)

// Future is the pending result of a submitted job
type Future[T any] struct {
	done      chan struct{}
	abandoned atomic.Bool
	value     T
	err       error
}

// Done is closed once the result is available
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the job finishes or ctx is done. A job that has already
// started keeps running after ctx is done and its result is discarded. A job
// still queued is dropped and resolves with context.Canceled.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		f.abandoned.Store(true)
		var zero T
		return zero, ctx.Err()
	}
}

func (f *Future[T]) resolve(value T, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// Submit queues fn on d's pool. It fails immediately with
// ErrNoWorkersAvailable when the pool is disabled and with ErrShutdown once
// the dispatcher is closing.
func Submit[T any](d *Dispatcher, fn func() (T, error)) (*Future[T], error) {
	f := &Future[T]{done: make(chan struct{})}
	j := &job{
		id: ksuid.New(),
		run: func() {
			f.resolve(fn())
		},
		cancel: func(err error) {
			var zero T
			f.resolve(zero, err)
		},
		abandoned: f.abandoned.Load,
	}
	if err := d.submit(j); err != nil {
		return nil, err
	}
	return f, nil
}
