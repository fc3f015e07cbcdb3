package ports

import "github.com/bft-labs/mailsink/internal/domain"

// ErrorReporter receives failures the sink swallows on behalf of its
// callers. A logging subsystem must never crash the application it
// instruments, so buffering and delivery errors are routed here instead
// of surfacing at the emit call site.
//
// Report is invoked exactly once per failed batch with the records that
// were lost. Implementations must not panic and should return quickly;
// under the fire-and-forget policy they run on a dispatch worker.
type ErrorReporter interface {
	Report(batch *domain.Batch, err error)
}

// ReporterFunc adapts a function to the ErrorReporter interface.
type ReporterFunc func(batch *domain.Batch, err error)

// Report calls f.
func (f ReporterFunc) Report(batch *domain.Batch, err error) {
	f(batch, err)
}
