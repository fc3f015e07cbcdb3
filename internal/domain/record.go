package domain

import (
	"strings"
	"time"
)

// Record represents a single log event.
// Records are immutable once created; the buffer owns them transiently
// between append and drain.
type Record struct {
	// Logger is the name of the logger that produced the record.
	Logger string

	// Level is the severity of the record.
	Level Level

	// Message is the raw message text.
	Message string

	// Time is when the record was created.
	Time time.Time
}

// NewRecord creates a record stamped with the current time.
func NewRecord(logger string, level Level, message string) Record {
	return Record{
		Logger:  logger,
		Level:   level,
		Message: message,
		Time:    time.Now(),
	}
}

// Formatter renders records into their outbound text representation.
//
// Layout is a token template; the tokens {time}, {level}, {name} and
// {message} are replaced with the corresponding record fields. TimeFormat
// is a Go reference-time layout applied to the record timestamp.
type Formatter struct {
	Layout     string
	TimeFormat string
}

// DefaultLayout is used when no layout is configured.
const DefaultLayout = "{time} {level} {name} {message}"

// Format renders one record according to the formatter's layout.
func (f Formatter) Format(r Record) string {
	layout := f.Layout
	if layout == "" {
		layout = DefaultLayout
	}
	timeFormat := f.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339
	}
	replacer := strings.NewReplacer(
		"{time}", r.Time.Format(timeFormat),
		"{level}", r.Level.String(),
		"{name}", r.Logger,
		"{message}", r.Message,
	)
	return replacer.Replace(layout)
}
