// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// Ports are the boundaries between the application core and the outside
// world. They define what the sink needs from external systems without
// specifying how those needs are fulfilled.
//
// # Port Interfaces
//
//   - [LogSink]: Accepts a single log record for buffered emission
//   - [BatchDeliverer]: Delivers a drained batch to the remote endpoint
//   - [ErrorReporter]: Receives delivery and buffering failures
//   - [Logger]: Structured logging abstraction (alias of pkg/log)
//
// # Usage
//
// The application layer (internal/app, internal/dispatch) depends only on
// these interfaces. Infrastructure adapters (internal/adapters) implement
// them with concrete implementations (SMTP, zerolog, etc.).
//
// This separation enables:
//   - Testing application logic with fake implementations
//   - Swapping the delivery backend without changing buffering logic
//   - Clear boundaries and dependency direction
package ports
