// Package domain contains the core domain entities and value objects for
// mailsink.
//
// This package represents the innermost layer of the architecture. It has no
// dependencies on infrastructure concerns (SMTP, file system, logging) and
// contains only pure business logic.
//
// # Entities
//
//   - [Record]: A single log event (message, level, timestamp, source)
//   - [Batch]: An ordered group of records flushed together in one delivery
//   - [Level]: Log severity, ordered Debug < Info < Warning < Error < Critical
//   - [Formatter]: Renders a record into its outbound text line
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Testable without mocks or external systems
package domain
