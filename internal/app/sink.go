package app

import (
	"context"
	"time"

	"github.com/bft-labs/mailsink/internal/buffer"
	"github.com/bft-labs/mailsink/internal/dispatch"
	"github.com/bft-labs/mailsink/internal/domain"
	"github.com/bft-labs/mailsink/internal/ports"
)

// SinkConfig contains configuration for the sink.
type SinkConfig struct {
	// Name identifies the sink in diagnostics.
	Name string

	// Level is the severity threshold; records below it are dropped
	// before buffering.
	Level domain.Level

	// Capacity is the buffer threshold that triggers a flush.
	Capacity int

	// Workers, Policy and WaitTimeout configure the dispatch pool.
	Workers     int
	Policy      dispatch.Policy
	WaitTimeout time.Duration
}

// Sink owns the batch buffer and the dispatch executor and exposes the
// single Emit entry point. It implements ports.LogSink.
type Sink struct {
	cfg      SinkConfig
	buffer   *buffer.Buffer
	executor *dispatch.Executor
	logger   ports.Logger
	metrics  *metricsCollector
}

// NewSink builds the emission pipeline: a buffer with the configured
// capacity feeding a bounded worker pool that delivers through deliverer.
// Failures are routed to reporter, never to producers.
func NewSink(
	cfg SinkConfig,
	deliverer ports.BatchDeliverer,
	reporter ports.ErrorReporter,
	logger ports.Logger,
) (*Sink, error) {
	buf, err := buffer.New(cfg.Capacity)
	if err != nil {
		return nil, err
	}

	metrics := &metricsCollector{}

	exec, err := dispatch.New(
		dispatch.Config{
			Workers:     cfg.Workers,
			Policy:      cfg.Policy,
			WaitTimeout: cfg.WaitTimeout,
		},
		deliverer,
		reporter,
		logger,
		metrics,
		buf.Release,
	)
	if err != nil {
		return nil, err
	}

	return &Sink{
		cfg:      cfg,
		buffer:   buf,
		executor: exec,
		logger:   logger,
		metrics:  metrics,
	}, nil
}

// Emit appends a record to the buffer; when the append reaches the
// capacity threshold the drained batch is handed to the dispatch pool.
// Under the fire-and-forget policy Emit never blocks on delivery.
func (s *Sink) Emit(record domain.Record) error {
	if record.Level < s.cfg.Level {
		return nil
	}

	s.metrics.IncRecordsBuffered()
	batch := s.buffer.Append(record)
	if batch == nil {
		return nil
	}

	s.metrics.IncBatchesFlushed()
	return s.executor.Submit(batch)
}

// Flush drains a partially filled buffer and submits it for delivery.
func (s *Sink) Flush() error {
	batch := s.buffer.Drain()
	if batch == nil {
		return nil
	}
	s.metrics.IncBatchesFlushed()
	return s.executor.Submit(batch)
}

// Close flushes the pending buffer and shuts the dispatch pool down,
// waiting for in-flight deliveries up to ctx's deadline.
func (s *Sink) Close(ctx context.Context) error {
	if err := s.Flush(); err != nil {
		s.logger.Error("flush on close failed", ports.Err(err))
	}
	return s.executor.Close(ctx)
}

// Metrics returns a snapshot of the sink's activity counters.
func (s *Sink) Metrics() Metrics {
	return s.metrics.Snapshot()
}

// Buffered returns the number of records currently waiting in the buffer.
func (s *Sink) Buffered() int {
	return s.buffer.Len()
}
