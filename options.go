package mailsink

import (
	"github.com/bft-labs/mailsink/internal/ports"
	"github.com/bft-labs/mailsink/pkg/log"
)

// Deliverer is the interface for delivering a drained batch.
// The built-in SMTP deliverer satisfies it; tests and alternate backends
// can supply their own.
type Deliverer = ports.BatchDeliverer

// ErrorReporter receives delivery and buffering failures the sink
// swallows on behalf of its callers. Implementations must not panic.
type ErrorReporter = ports.ErrorReporter

// ReporterFunc adapts a function to the ErrorReporter interface.
type ReporterFunc = ports.ReporterFunc

// Option configures optional behavior of a Logger.
type Option func(*options)

// options holds the optional collaborators for a Logger instance.
type options struct {
	logger    log.Logger
	reporter  ports.ErrorReporter
	deliverer ports.BatchDeliverer
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithLogger sets a structured logger for the sink's own diagnostics.
// If not provided, diagnostics are discarded.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithErrorReporter sets the hook that receives failed batches.
// If not provided, failures are reported through the diagnostic logger
// on a best-effort basis.
func WithErrorReporter(reporter ErrorReporter) Option {
	return func(o *options) {
		o.reporter = reporter
	}
}

// WithDeliverer replaces the built-in SMTP deliverer.
// Useful for tests and for alternate delivery backends that reuse the
// same buffer and dispatch pipeline.
func WithDeliverer(deliverer Deliverer) Option {
	return func(o *options) {
		o.deliverer = deliverer
	}
}
