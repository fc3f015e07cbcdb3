package domain

import "strings"

// Batch is an ordered group of records flushed together in one delivery.
// Insertion order is significant and preserved in the outbound message.
// A batch exists only for the duration of one flush: created by draining
// the buffer, consumed by the deliverer, then discarded.
type Batch struct {
	// Records contains the batch contents in append order.
	Records []Record
}

// NewBatch creates a new empty batch with the given capacity hint.
func NewBatch(capacity int) *Batch {
	return &Batch{Records: make([]Record, 0, capacity)}
}

// Add appends a record to the tail of the batch.
func (b *Batch) Add(r Record) {
	b.Records = append(b.Records, r)
}

// Size returns the number of records in the batch.
func (b *Batch) Size() int {
	return len(b.Records)
}

// Empty returns true if the batch has no records.
func (b *Batch) Empty() bool {
	return len(b.Records) == 0
}

// Body renders the batch into a single message body: every record
// formatted and joined by newlines, in append order.
func (b *Batch) Body(f Formatter) string {
	lines := make([]string, len(b.Records))
	for i, r := range b.Records {
		lines[i] = f.Format(r)
	}
	return strings.Join(lines, "\n")
}

// Reset clears the batch for reuse.
func (b *Batch) Reset() {
	b.Records = b.Records[:0]
}
