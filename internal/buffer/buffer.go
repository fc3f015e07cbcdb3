// Package buffer implements the concurrency-safe batch buffer at the heart
// of mailsink.
//
// The buffer accumulates records in append order until a configured
// capacity is reached, at which point it is drained in place: the current
// sequence is handed off as a batch and an empty one takes its place, all
// under the same lock that guarded the append. No record can be appended
// to a sequence that is concurrently being drained, and no record is ever
// delivered twice.
package buffer

import (
	"fmt"
	"sync"

	"github.com/bft-labs/mailsink/internal/domain"
)

// Buffer is a thread-safe ordered collection of pending records with a
// capacity threshold. The zero value is not usable; use New.
//
// Draining uses two arenas: while one record slice accumulates appends,
// the previously drained one is out being delivered. Release returns a
// delivered batch's backing array so the next drain can reuse it instead
// of allocating.
type Buffer struct {
	mu       sync.Mutex
	records  []domain.Record
	spare    []domain.Record
	capacity int
}

// New creates a buffer with the given capacity threshold.
// Capacity must be at least 1; a capacity of 1 makes every record its own
// batch.
func New(capacity int) (*Buffer, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: buffer capacity must be at least 1, got %d",
			domain.ErrInvalidConfig, capacity)
	}
	return &Buffer{
		records:  make([]domain.Record, 0, capacity),
		capacity: capacity,
	}, nil
}

// Capacity returns the configured threshold.
func (b *Buffer) Capacity() int {
	return b.capacity
}

// Len returns the number of records currently buffered.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}

// Append adds a record to the tail of the sequence. The append, the
// capacity check and the drain execute as one atomic step: when the
// append reaches the threshold, the full sequence is returned as a batch
// and an empty sequence is installed before the lock is released, so a
// new batch begins accumulating immediately.
//
// Returns nil while the buffer is below its threshold.
func (b *Buffer) Append(r domain.Record) *domain.Batch {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.records = append(b.records, r)
	if len(b.records) < b.capacity {
		return nil
	}
	return b.swapLocked()
}

// Drain atomically removes all current contents and hands them off,
// leaving the buffer empty for new appends. Used for flush-on-shutdown of
// a partially filled buffer. Returns nil if the buffer is empty.
func (b *Buffer) Drain() *domain.Batch {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.records) == 0 {
		return nil
	}
	return b.swapLocked()
}

// swapLocked hands off the current sequence and installs the spare arena
// (or a fresh one). Callers must hold b.mu.
func (b *Buffer) swapLocked() *domain.Batch {
	batch := &domain.Batch{Records: b.records}
	if b.spare != nil {
		b.records = b.spare
		b.spare = nil
	} else {
		b.records = make([]domain.Record, 0, b.capacity)
	}
	return batch
}

// Release returns a delivered batch's backing array for reuse by the next
// drain. Safe to call from delivery workers; if a spare is already parked
// the array is dropped for the garbage collector.
func (b *Buffer) Release(batch *domain.Batch) {
	if batch == nil || cap(batch.Records) < b.capacity {
		return
	}
	arena := batch.Records[:0]
	batch.Records = nil

	b.mu.Lock()
	if b.spare == nil {
		b.spare = arena
	}
	b.mu.Unlock()
}
