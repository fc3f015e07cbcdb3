package ports

import (
	"context"

	"github.com/bft-labs/mailsink/internal/domain"
)

// BatchDeliverer transmits a drained batch to the remote endpoint.
// Implementations handle message construction, connection setup, optional
// transport security and authentication, and teardown.
type BatchDeliverer interface {
	// Deliver sends one batch as a single outbound message, preserving
	// record order in the message body. It attempts delivery exactly once;
	// retry policy belongs to the caller. A failure at any protocol step
	// is returned as a *domain.DeliveryError wrapping the cause.
	Deliver(ctx context.Context, batch *domain.Batch) error
}
