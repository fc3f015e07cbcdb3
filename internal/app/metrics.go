package app

import (
	"sync"
	"time"
)

// Metrics is a point-in-time snapshot of the sink's activity counters.
type Metrics struct {
	RecordsBuffered  int
	BatchesFlushed   int
	BatchesFailed    int
	RecordsDelivered int
	RecordsLost      int
}

// metricsCollector accumulates counters behind a mutex. It implements
// dispatch.Events so delivery outcomes feed the counters directly.
type metricsCollector struct {
	mu       sync.RWMutex
	counters Metrics
}

func (m *metricsCollector) IncRecordsBuffered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters.RecordsBuffered++
}

func (m *metricsCollector) IncBatchesFlushed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters.BatchesFlushed++
}

// OnDeliverSuccess implements dispatch.Events.
func (m *metricsCollector) OnDeliverSuccess(records int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters.RecordsDelivered += records
}

// OnDeliverFailure implements dispatch.Events. Failed batches are lost:
// delivery is at-most-once and the sink never retries.
func (m *metricsCollector) OnDeliverFailure(err error, records int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters.BatchesFailed++
	m.counters.RecordsLost += records
}

// Snapshot returns a copy of the current counters.
func (m *metricsCollector) Snapshot() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters
}
