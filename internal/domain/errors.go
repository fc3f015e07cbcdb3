package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the mailsink domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrNotConfigured is returned when a logging call runs before Configure().
	ErrNotConfigured = errors.New("mailsink: not configured")

	// ErrAlreadyConfigured is returned when Configure() is called twice.
	// Configure is a single-call contract; a second call would register a
	// duplicate delivery pipeline.
	ErrAlreadyConfigured = errors.New("mailsink: already configured")

	// ErrClosed is returned when the sink is used after Close().
	ErrClosed = errors.New("mailsink: closed")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("mailsink: invalid configuration")
)

// DeliveryError reports a failed batch delivery. It carries the protocol
// stage that failed (dial, starttls, auth, send) and the underlying cause.
// Delivery errors never propagate past the sink facade; they are routed to
// the error reporter.
type DeliveryError struct {
	Stage string
	Err   error
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	return fmt.Sprintf("mailsink: delivery failed at %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DeliveryError) Unwrap() error {
	return e.Err
}
