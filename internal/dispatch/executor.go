// Package dispatch runs batch deliveries on a bounded pool of background
// workers, off the producer goroutines that emit records.
//
// Batches enter the pool in the order they were drained. Workers run in
// parallel, so cross-batch delivery order at the remote endpoint is not
// guaranteed unless the pool is constrained to a single worker. Callers
// that need receipt ordering must configure Workers = 1.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/mailsink/internal/domain"
	"github.com/bft-labs/mailsink/internal/ports"
)

// Policy selects how Submit relates the producer to the delivery outcome.
type Policy string

const (
	// FireAndForget hands the batch to the pool and returns immediately.
	// Background failures are observable only through the error reporter.
	// This is the default: it matches the intent of non-blocking emission.
	FireAndForget Policy = "fire-and-forget"

	// BoundedWait blocks the producer until the delivery completes or a
	// configured timeout elapses, trading throughput for a stronger
	// delivery signal. Failures are still routed to the error reporter,
	// never returned to the producer.
	BoundedWait Policy = "bounded-wait"
)

// ParsePolicy converts a policy name to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case FireAndForget, BoundedWait:
		return Policy(s), nil
	case "":
		return FireAndForget, nil
	default:
		return "", fmt.Errorf("%w: unknown dispatch policy %q", domain.ErrInvalidConfig, s)
	}
}

// Events is called on delivery success or failure.
type Events interface {
	OnDeliverSuccess(records int, duration time.Duration)
	OnDeliverFailure(err error, records int)
}

// Config contains configuration for the executor pool.
type Config struct {
	// Workers is the fixed upper bound on concurrent deliveries.
	Workers int

	// Policy selects fire-and-forget or bounded-wait submission.
	Policy Policy

	// WaitTimeout bounds the producer's wait under BoundedWait.
	WaitTimeout time.Duration
}

type job struct {
	batch *domain.Batch
	done  chan struct{}
}

// Executor owns the worker pool. Create with New, stop with Close.
type Executor struct {
	cfg       Config
	deliverer ports.BatchDeliverer
	reporter  ports.ErrorReporter
	logger    ports.Logger
	events    Events
	release   func(*domain.Batch)

	jobs chan job
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// New creates an executor and starts its workers.
// The release hook, if non-nil, is invoked after each successful delivery
// so the buffer can reclaim the batch's backing array.
func New(
	cfg Config,
	deliverer ports.BatchDeliverer,
	reporter ports.ErrorReporter,
	logger ports.Logger,
	events Events,
	release func(*domain.Batch),
) (*Executor, error) {
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("%w: worker count must be at least 1, got %d",
			domain.ErrInvalidConfig, cfg.Workers)
	}
	if cfg.Policy == "" {
		cfg.Policy = FireAndForget
	}
	if cfg.Policy == BoundedWait && cfg.WaitTimeout <= 0 {
		return nil, fmt.Errorf("%w: bounded-wait requires a positive wait timeout",
			domain.ErrInvalidConfig)
	}

	e := &Executor{
		cfg:       cfg,
		deliverer: deliverer,
		reporter:  reporter,
		logger:    logger,
		events:    events,
		release:   release,
		jobs:      make(chan job, cfg.Workers*2),
	}

	e.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go e.worker()
	}
	return e, nil
}

// Submit hands a drained batch to the pool. Under FireAndForget it returns
// as soon as the batch is queued; under BoundedWait it blocks until the
// delivery finishes or WaitTimeout elapses. Submit never returns delivery
// errors; those go to the error reporter exactly once per failed batch.
// Returns ErrClosed after Close.
func (e *Executor) Submit(batch *domain.Batch) error {
	if batch == nil || batch.Empty() {
		return nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return domain.ErrClosed
	}

	j := job{batch: batch}
	if e.cfg.Policy == BoundedWait {
		j.done = make(chan struct{})
	}

	e.jobs <- j

	if j.done != nil {
		timer := time.NewTimer(e.cfg.WaitTimeout)
		defer timer.Stop()
		select {
		case <-j.done:
		case <-timer.C:
			e.logger.Warn("delivery confirmation timed out",
				ports.Int("records", batch.Size()),
				ports.Duration("wait_timeout", e.cfg.WaitTimeout))
		}
	}
	return nil
}

// Close stops accepting batches, waits for queued deliveries to finish,
// and releases the workers. Waiting is bounded by ctx.
func (e *Executor) Close(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return domain.ErrClosed
	}
	e.closed = true
	close(e.jobs)
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Executor) worker() {
	defer e.wg.Done()
	for j := range e.jobs {
		e.deliver(j)
	}
}

func (e *Executor) deliver(j job) {
	batch := j.batch
	start := time.Now()
	err := e.deliverer.Deliver(context.Background(), batch)
	duration := time.Since(start)

	if err != nil {
		e.logger.Error("delivery failed",
			ports.Err(err),
			ports.Int("records", batch.Size()),
			ports.Duration("duration", duration))
		if e.reporter != nil {
			e.reporter.Report(batch, err)
		}
		if e.events != nil {
			e.events.OnDeliverFailure(err, batch.Size())
		}
	} else {
		e.logger.Debug("delivered batch",
			ports.Int("records", batch.Size()),
			ports.Duration("duration", duration))
		if e.events != nil {
			e.events.OnDeliverSuccess(batch.Size(), duration)
		}
		// The reporter owns failed batches, so only delivered ones are
		// recycled.
		if e.release != nil {
			e.release(batch)
		}
	}

	if j.done != nil {
		close(j.done)
	}
}
