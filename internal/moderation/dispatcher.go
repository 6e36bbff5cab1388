package moderation

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PancyStudios/NoAdsHereGo/pkg/errors"
	"github.com/PancyStudios/NoAdsHereGo/pkg/logger"
	"github.com/sourcegraph/conc/pool"
)

// Evaluator runs the moderation pipeline for one message
type Evaluator interface {
	Evaluate(ctx context.Context, msg Message) []Decision
}

// DispatcherOptions sizes the worker pool
type DispatcherOptions struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// DefaultDispatcherOptions returns the sizes used when nothing is configured
func DefaultDispatcherOptions() DispatcherOptions {
	return DispatcherOptions{
		Workers:   8,
		QueueSize: 256,
		Timeout:   15 * time.Second,
	}
}

// DispatcherStats are counters since Start
type DispatcherStats struct {
	Queued     int   `json:"queued"`
	Processed  int64 `json:"processed"`
	Suppressed int64 `json:"suppressed"`
	Failed     int64 `json:"failed"`
	Dropped    int64 `json:"dropped"`
}

// Dispatcher feeds messages from a bounded queue to a fixed set of workers.
// Submit blocks while the queue is full, which pushes back on the gateway.
type Dispatcher struct {
	engine  Evaluator
	queue   chan Message
	workers int
	timeout time.Duration
	pool    *pool.Pool

	mu       sync.RWMutex
	closed   bool
	started  bool
	stopOnce sync.Once

	processed  atomic.Int64
	suppressed atomic.Int64
	failed     atomic.Int64
	dropped    atomic.Int64
}

// NewDispatcher creates a stopped dispatcher. Zero options fall back to the defaults.
func NewDispatcher(engine Evaluator, opts DispatcherOptions) *Dispatcher {
	def := DefaultDispatcherOptions()
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = def.QueueSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}

	return &Dispatcher{
		engine:  engine,
		queue:   make(chan Message, opts.QueueSize),
		workers: opts.Workers,
		timeout: opts.Timeout,
		pool:    pool.New().WithMaxGoroutines(opts.Workers),
	}
}

// Start launches the workers
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	for i := 0; i < d.workers; i++ {
		d.pool.Go(d.work)
	}
	logger.System(fmt.Sprintf("Dispatcher iniciado con %d workers (cola: %d)", d.workers, cap(d.queue)), "Dispatcher")
}

// Submit queues msg, waiting for room until ctx is done
func (d *Dispatcher) Submit(ctx context.Context, msg Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDispatcherStopped
	}

	select {
	case d.queue <- msg:
		return nil
	case <-ctx.Done():
		d.dropped.Add(1)
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for queued messages to finish
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		started := d.started
		d.mu.Unlock()

		if started {
			d.pool.Wait()
		}
		logger.System("Dispatcher detenido", "Dispatcher")
	})
}

// Stats returns a snapshot of the counters
func (d *Dispatcher) Stats() DispatcherStats {
	return DispatcherStats{
		Queued:     len(d.queue),
		Processed:  d.processed.Load(),
		Suppressed: d.suppressed.Load(),
		Failed:     d.failed.Load(),
		Dropped:    d.dropped.Load(),
	}
}

func (d *Dispatcher) work() {
	for msg := range d.queue {
		d.handle(msg)
	}
}

func (d *Dispatcher) handle(msg Message) {
	defer d.processed.Add(1)
	defer errors.RecoverMiddleware()()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	for _, decision := range d.engine.Evaluate(ctx, msg) {
		if decision.Outcome == Suppressed {
			d.suppressed.Add(1)
		}
		if decision.Err != nil {
			d.failed.Add(1)
		}
	}
}
