// Package dispatch runs derivation jobs on a bounded pool of workers.
//
// Workers start lazily as jobs arrive, up to MaxWorkers, and exit after
// IdleTimeout without work while more than MinWorkers are alive. Jobs that
// arrive while every worker is busy wait in a FIFO queue.
package dispatch

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/ssargent/scryptd/pkg/hasher"
	"github.com/ssargent/scryptd/pkg/params"
)

// AutoWorkers requests a pool sized from the number of CPUs
const AutoWorkers = -1

// DefaultIdleTimeout is how long a worker above MinWorkers waits for work
const DefaultIdleTimeout = 30 * time.Second

// Config holds configuration for a Dispatcher
type Config struct {
	MinWorkers  int
	MaxWorkers  int // AutoWorkers for a quarter of the CPUs, 0 to disable
	IdleTimeout time.Duration
}

// Stats is a point-in-time view of the pool
type Stats struct {
	Live   int `json:"live"`
	Idle   int `json:"idle"`
	Queued int `json:"queued"`
}

type job struct {
	id        ksuid.KSUID
	run       func()
	cancel    func(error)
	abandoned func() bool
}

// Dispatcher owns a worker pool and its job queue. All fields below mu are
// guarded by it.
type Dispatcher struct {
	hasher *hasher.Hasher
	logger *slog.Logger

	minWorkers  int
	maxWorkers  int
	idleTimeout time.Duration

	mu     sync.Mutex
	queue  []*job
	idlers []chan struct{}
	live   int
	closed bool
	done   chan struct{}
}

// ResolveWorkers turns AutoWorkers into a concrete count
func ResolveWorkers(n int) int {
	if n != AutoWorkers {
		return n
	}
	auto := runtime.NumCPU() / 4
	if auto < 1 {
		auto = 1
	}
	return auto
}

// New creates a dispatcher and starts MinWorkers warm workers
func New(h *hasher.Hasher, config Config, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	maxWorkers := ResolveWorkers(config.MaxWorkers)
	if maxWorkers < 0 {
		maxWorkers = 0
	}
	minWorkers := config.MinWorkers
	if minWorkers < 0 {
		minWorkers = 0
	}
	if minWorkers > maxWorkers {
		minWorkers = maxWorkers
	}
	idleTimeout := config.IdleTimeout
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}

	d := &Dispatcher{
		hasher:      h,
		logger:      logger,
		minWorkers:  minWorkers,
		maxWorkers:  maxWorkers,
		idleTimeout: idleTimeout,
		done:        make(chan struct{}),
	}

	d.mu.Lock()
	for i := 0; i < minWorkers; i++ {
		d.spawn()
	}
	d.mu.Unlock()

	return d
}

// MaxWorkers returns the resolved worker limit
func (d *Dispatcher) MaxWorkers() int {
	return d.maxWorkers
}

// Stats returns the current pool counters
func (d *Dispatcher) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Stats{Live: d.live, Idle: len(d.idlers), Queued: len(d.queue)}
}

// Hash runs hasher.Hash on the pool and waits for the result
func (d *Dispatcher) Hash(ctx context.Context, data string, p params.ScryptParams) ([]byte, error) {
	f, err := Submit(d, func() ([]byte, error) {
		return d.hasher.Hash(data, p)
	})
	if err != nil {
		return nil, err
	}
	return f.Wait(ctx)
}

// Compare runs hasher.Compare on the pool and waits for the result
func (d *Dispatcher) Compare(ctx context.Context, data string, encoded []byte) (bool, error) {
	f, err := Submit(d, func() (bool, error) {
		return d.hasher.Compare(data, encoded)
	})
	if err != nil {
		return false, err
	}
	return f.Wait(ctx)
}

// submit queues j, waking an idle worker or starting a new one
func (d *Dispatcher) submit(j *job) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.maxWorkers == 0 {
		return ErrNoWorkersAvailable
	}
	if d.closed {
		return ErrShutdown
	}

	d.queue = append(d.queue, j)
	if n := len(d.idlers); n > 0 {
		wake := d.idlers[n-1]
		d.idlers = d.idlers[:n-1]
		wake <- struct{}{}
	} else if d.live < d.maxWorkers {
		d.spawn()
	}

	return nil
}

// spawn starts a worker. Callers hold mu.
func (d *Dispatcher) spawn() {
	d.live++
	go d.worker()
}

func (d *Dispatcher) worker() {
	wake := make(chan struct{}, 1)
	timer := time.NewTimer(d.idleTimeout)
	defer timer.Stop()

	for {
		d.mu.Lock()
		if len(d.queue) > 0 {
			j := d.queue[0]
			d.queue[0] = nil
			d.queue = d.queue[1:]
			d.mu.Unlock()

			if j.abandoned() {
				d.logger.Debug("dropping abandoned job", "job", j.id.String())
				j.cancel(context.Canceled)
				continue
			}
			d.logger.Debug("running job", "job", j.id.String())
			j.run()
			continue
		}
		if d.closed {
			d.exitLocked()
			d.mu.Unlock()
			return
		}
		d.idlers = append(d.idlers, wake)
		d.mu.Unlock()

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(d.idleTimeout)

		select {
		case <-wake:
			continue
		case <-timer.C:
		}

		d.mu.Lock()
		if !d.removeIdlerLocked(wake) {
			// Handed work while the timer fired; the token is already buffered.
			d.mu.Unlock()
			<-wake
			continue
		}
		if len(d.queue) == 0 && !d.closed && d.live > d.minWorkers {
			d.exitLocked()
			d.mu.Unlock()
			return
		}
		d.mu.Unlock()
	}
}

// removeIdlerLocked unregisters wake and reports whether it was still
// registered. Callers hold mu.
func (d *Dispatcher) removeIdlerLocked(wake chan struct{}) bool {
	for i, w := range d.idlers {
		if w == wake {
			d.idlers = append(d.idlers[:i], d.idlers[i+1:]...)
			return true
		}
	}
	return false
}

// exitLocked retires the calling worker. Callers hold mu.
func (d *Dispatcher) exitLocked() {
	d.live--
	if d.closed && d.live == 0 {
		select {
		case <-d.done:
		default:
			close(d.done)
		}
	}
}

// closeLocked stops intake and wakes every idle worker. Callers hold mu.
func (d *Dispatcher) closeLocked() {
	if d.closed {
		return
	}
	d.closed = true
	for _, wake := range d.idlers {
		wake <- struct{}{}
	}
	d.idlers = nil
	if d.live == 0 {
		close(d.done)
	}
}

// cancelQueuedLocked fails every job that has not started. Callers hold mu.
func (d *Dispatcher) cancelQueuedLocked() []*job {
	cancelled := d.queue
	d.queue = nil
	return cancelled
}

// Shutdown stops accepting jobs and waits for queued and running jobs to
// finish. If ctx expires first, jobs that have not started are cancelled
// with ErrShutdown and ctx.Err() is returned. Safe to call more than once.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closeLocked()
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		d.mu.Lock()
		cancelled := d.cancelQueuedLocked()
		d.mu.Unlock()
		for _, j := range cancelled {
			j.cancel(ErrShutdown)
		}
		return ctx.Err()
	}
}

// Close cancels queued jobs and waits for running ones to finish. Safe to
// call more than once and after Shutdown.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	d.closeLocked()
	cancelled := d.cancelQueuedLocked()
	d.mu.Unlock()

	for _, j := range cancelled {
		j.cancel(ErrShutdown)
	}
	<-d.done
	return nil
}
