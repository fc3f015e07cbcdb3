package ports

import "github.com/bft-labs/mailsink/pkg/log"

// Logger is the structured logging abstraction used by internal packages.
// It is an alias of the public pkg/log interface so adapters can be shared.
type Logger = log.Logger

// Field is a structured logging key-value pair.
type Field = log.Field

// Field constructors re-exported for convenience inside internal packages.
var (
	String   = log.String
	Int      = log.Int
	Bool     = log.Bool
	Duration = log.Duration
	Err      = log.Err
	Any      = log.Any
)
