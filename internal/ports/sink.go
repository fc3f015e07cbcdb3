package ports

import "github.com/bft-labs/mailsink/internal/domain"

// LogSink accepts log records for buffered, asynchronous emission.
// Implementations must be safe for concurrent use by multiple producers.
type LogSink interface {
	// Emit appends a record to the sink's buffer and, when the buffer
	// reaches its capacity, triggers an asynchronous flush. Emit returns
	// an error only for sink misuse (not configured, closed); delivery
	// trouble is routed to the ErrorReporter instead.
	Emit(record domain.Record) error
}
