// Package mailsink provides a buffered log sink that batches records and
// flushes them asynchronously to a mail gateway without blocking the
// logging call site.
//
// Example usage:
//
//	cfg := mailsink.DefaultConfig()
//	cfg.Host = "smtp.example.com"
//	cfg.From = "app@example.com"
//	cfg.To = []string{"ops@example.com"}
//	cfg.Subject = "application log"
//
//	logger, err := mailsink.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := logger.Configure(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Close(context.Background())
//
//	logger.Info("service started")
package mailsink

import (
	"context"
	"fmt"

	smtpAdapter "github.com/bft-labs/mailsink/internal/adapters/smtp"
	"github.com/bft-labs/mailsink/internal/app"
	"github.com/bft-labs/mailsink/internal/dispatch"
	"github.com/bft-labs/mailsink/internal/domain"
	"github.com/bft-labs/mailsink/internal/ports"
	"github.com/bft-labs/mailsink/pkg/log"
)

// Level is the severity of a log record.
type Level = domain.Level

// Severity levels, ordered Debug < Info < Warning < Error < Critical.
const (
	LevelDebug    = domain.LevelDebug
	LevelInfo     = domain.LevelInfo
	LevelWarning  = domain.LevelWarning
	LevelError    = domain.LevelError
	LevelCritical = domain.LevelCritical
)

// ParseLevel converts a case-insensitive level name to a Level.
func ParseLevel(s string) (Level, error) {
	return domain.ParseLevel(s)
}

// Errors returned by the facade for misuse; check with errors.Is.
var (
	ErrNotConfigured     = domain.ErrNotConfigured
	ErrAlreadyConfigured = domain.ErrAlreadyConfigured
	ErrClosed            = domain.ErrClosed
	ErrInvalidConfig     = domain.ErrInvalidConfig
)

// Record is a single log event handed to the sink.
type Record = domain.Record

// Batch is an ordered group of records flushed together in one delivery.
type Batch = domain.Batch

// Metrics is a snapshot of the sink's activity counters.
type Metrics = app.Metrics

// Logger is the facade log calls land on. It is unconfigured until
// Configure runs; every logging call before that fails with
// ErrNotConfigured rather than silently dropping the message. Once
// configured, logging calls never fail because of delivery trouble:
// those errors go to the error reporter.
//
// Delivery is at-most-once: a failed batch is reported and considered
// lost, never retried.
type Logger struct {
	cfg       Config
	opts      options
	lifecycle *app.Lifecycle
	sink      *app.Sink
}

// New creates a Logger with the given configuration. The instance starts
// unconfigured; call Configure to build the emission pipeline. Returns an
// error wrapping ErrInvalidConfig if the configuration is invalid, so
// misconfiguration surfaces before any record is ever buffered.
func New(cfg Config, opts ...Option) (*Logger, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Logger{
		cfg:       cfg,
		opts:      o,
		lifecycle: app.NewLifecycle(o.logger),
	}, nil
}

// Configure builds the buffer, dispatch pool and delivery client and
// transitions the logger to its configured state. Configure is a
// single-call contract: a second call fails with ErrAlreadyConfigured
// instead of registering a duplicate pipeline.
func (l *Logger) Configure() error {
	if err := l.lifecycle.TransitionTo(app.StateConfigured); err != nil {
		return err
	}

	deliverer := l.opts.deliverer
	if deliverer == nil {
		deliverer = smtpAdapter.NewDeliverer(l.cfg.endpoint(), l.cfg.formatter(), l.opts.logger)
	}

	reporter := l.opts.reporter
	if reporter == nil {
		reporter = loggingReporter{logger: l.opts.logger}
	}

	sink, err := app.NewSink(
		app.SinkConfig{
			Name:        l.cfg.Name,
			Level:       l.cfg.Level,
			Capacity:    l.cfg.BufferSize,
			Workers:     l.cfg.Workers,
			Policy:      dispatch.Policy(l.cfg.Policy),
			WaitTimeout: l.cfg.WaitTimeout,
		},
		deliverer,
		reporter,
		l.opts.logger,
	)
	if err != nil {
		return err
	}

	l.sink = sink
	return nil
}

// Configured reports whether Configure has run successfully.
func (l *Logger) Configured() bool {
	return l.lifecycle.State() == app.StateConfigured
}

// Log emits a message at an explicit level. Before Configure it fails
// with ErrNotConfigured; afterwards it returns nil even when downstream
// delivery is failing.
func (l *Logger) Log(level Level, message string) error {
	return l.emit(level, message)
}

// Debug emits a debug-level message.
func (l *Logger) Debug(message string) error {
	return l.emit(LevelDebug, message)
}

// Info emits an info-level message.
func (l *Logger) Info(message string) error {
	return l.emit(LevelInfo, message)
}

// Warning emits a warning-level message.
func (l *Logger) Warning(message string) error {
	return l.emit(LevelWarning, message)
}

// Error emits an error-level message.
func (l *Logger) Error(message string) error {
	return l.emit(LevelError, message)
}

// Critical emits a critical-level message.
func (l *Logger) Critical(message string) error {
	return l.emit(LevelCritical, message)
}

// Emit buffers a fully formed record. It implements ports.LogSink.
func (l *Logger) Emit(record Record) error {
	switch l.lifecycle.State() {
	case app.StateUnconfigured:
		return ErrNotConfigured
	case app.StateClosed:
		return ErrClosed
	}
	return l.guardedEmit(record)
}

func (l *Logger) emit(level Level, message string) error {
	return l.Emit(domain.NewRecord(l.cfg.Name, level, message))
}

// guardedEmit is the boundary past which nothing may escape to the
// caller: a logging subsystem must never crash the application it
// instruments. Panics and unexpected errors from the pipeline are routed
// to the error reporter.
func (l *Logger) guardedEmit(record Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			l.report(&domain.Batch{Records: []domain.Record{record}},
				fmt.Errorf("mailsink: emit panic: %v", r))
			err = nil
		}
	}()

	if emitErr := l.sink.Emit(record); emitErr != nil {
		l.report(&domain.Batch{Records: []domain.Record{record}}, emitErr)
	}
	return nil
}

func (l *Logger) report(batch *domain.Batch, err error) {
	reporter := l.opts.reporter
	if reporter == nil {
		reporter = loggingReporter{logger: l.opts.logger}
	}
	reporter.Report(batch, err)
}

// Flush drains a partially filled buffer and submits it for delivery.
func (l *Logger) Flush() error {
	if l.lifecycle.State() != app.StateConfigured {
		return ErrNotConfigured
	}
	return l.sink.Flush()
}

// Close flushes the pending buffer, waits for in-flight deliveries up to
// ctx's deadline and releases the sink's resources. The logger cannot be
// reused afterwards.
func (l *Logger) Close(ctx context.Context) error {
	wasConfigured := l.lifecycle.State() == app.StateConfigured
	if err := l.lifecycle.TransitionTo(app.StateClosed); err != nil {
		return err
	}
	if !wasConfigured {
		return nil
	}
	return l.sink.Close(ctx)
}

// Metrics returns a snapshot of the sink's activity counters, or the
// zero value before Configure.
func (l *Logger) Metrics() Metrics {
	if l.sink == nil {
		return Metrics{}
	}
	return l.sink.Metrics()
}

// loggingReporter is the default error hook: best-effort local
// diagnostic output through the structured logger.
type loggingReporter struct {
	logger log.Logger
}

func (r loggingReporter) Report(batch *domain.Batch, err error) {
	r.logger.Error("batch lost",
		ports.Err(err),
		ports.Int("records", batch.Size()))
}

var _ ports.LogSink = (*Logger)(nil)
