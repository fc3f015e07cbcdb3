package buffer

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/mailsink/internal/domain"
)

func TestNewRejectsNonPositiveCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -100} {
		_, err := New(capacity)
		if err == nil {
			t.Errorf("New(%d): expected error", capacity)
			continue
		}
		if !errors.Is(err, domain.ErrInvalidConfig) {
			t.Errorf("New(%d): error %v does not wrap ErrInvalidConfig", capacity, err)
		}
	}
}

func TestAppendBelowThresholdReturnsNil(t *testing.T) {
	b, err := New(3)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		if batch := b.Append(domain.Record{Message: "m"}); batch != nil {
			t.Fatalf("append %d: unexpected drain of %d records", i, batch.Size())
		}
	}
	assert.Equal(t, 2, b.Len())
}

func TestThresholdOfOneMakesEveryRecordABatch(t *testing.T) {
	b, err := New(1)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		batch := b.Append(domain.Record{Message: fmt.Sprintf("m%d", i)})
		require.NotNil(t, batch, "append %d", i)
		assert.Equal(t, 1, batch.Size())
		assert.Equal(t, 0, b.Len())
	}
}

func TestCapacityTwoScenario(t *testing.T) {
	b, err := New(2)
	require.NoError(t, err)

	require.Nil(t, b.Append(domain.Record{Message: "a"}))
	first := b.Append(domain.Record{Message: "b"})
	require.NotNil(t, first)
	assert.Equal(t, []string{"a", "b"}, messages(first))

	require.Nil(t, b.Append(domain.Record{Message: "c"}))
	assert.Equal(t, 1, b.Len())

	rest := b.Drain()
	require.NotNil(t, rest)
	assert.Equal(t, []string{"c"}, messages(rest))
	assert.Equal(t, 0, b.Len())
}

func TestDrainEmptyReturnsNil(t *testing.T) {
	b, err := New(4)
	require.NoError(t, err)
	assert.Nil(t, b.Drain())
}

func TestReleaseReusesArena(t *testing.T) {
	b, err := New(2)
	require.NoError(t, err)

	b.Append(domain.Record{Message: "a"})
	batch := b.Append(domain.Record{Message: "b"})
	require.NotNil(t, batch)

	b.Release(batch)
	assert.Nil(t, batch.Records, "release must detach the backing array")

	// The next drain hands out the recycled arena; contents must be fresh.
	b.Append(domain.Record{Message: "c"})
	next := b.Append(domain.Record{Message: "d"})
	require.NotNil(t, next)
	assert.Equal(t, []string{"c", "d"}, messages(next))
}

// TestConcurrentAppendNoLossNoDuplication is the core property: under any
// interleaving of concurrent producers, the union of all drained batches
// equals the input multiset: no reordering within a producer, no
// duplication, no drop.
func TestConcurrentAppendNoLossNoDuplication(t *testing.T) {
	const (
		capacity  = 1000
		producers = 50
		perWorker = 100
	)

	b, err := New(capacity)
	require.NoError(t, err)

	var batchMu sync.Mutex
	var batches []*domain.Batch

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				batch := b.Append(domain.Record{
					Logger:  fmt.Sprintf("p%d", p),
					Message: fmt.Sprintf("p%d-%d", p, i),
				})
				if batch != nil {
					batchMu.Lock()
					batches = append(batches, batch)
					batchMu.Unlock()
				}
			}
		}(p)
	}
	wg.Wait()

	if rest := b.Drain(); rest != nil {
		batches = append(batches, rest)
	}

	require.Len(t, batches, producers*perWorker/capacity)

	seen := make(map[string]int)
	total := 0
	for _, batch := range batches {
		perProducerLast := make(map[string]int)
		for _, rec := range batch.Records {
			seen[rec.Message]++
			total++

			// Within one batch, records from the same producer must keep
			// their emission order.
			var idx int
			fmt.Sscanf(rec.Message, rec.Logger+"-%d", &idx)
			if last, ok := perProducerLast[rec.Logger]; ok && idx <= last {
				t.Fatalf("producer %s out of order: %d after %d", rec.Logger, idx, last)
			}
			perProducerLast[rec.Logger] = idx
		}
	}

	assert.Equal(t, producers*perWorker, total, "exactly all records delivered")
	for p := 0; p < producers; p++ {
		for i := 0; i < perWorker; i++ {
			msg := fmt.Sprintf("p%d-%d", p, i)
			if seen[msg] != 1 {
				t.Fatalf("record %s seen %d times", msg, seen[msg])
			}
		}
	}
}

func messages(b *domain.Batch) []string {
	out := make([]string, len(b.Records))
	for i, r := range b.Records {
		out[i] = r.Message
	}
	return out
}
