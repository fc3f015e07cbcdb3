package mailsink_test

import (
	"context"
	"fmt"
	"time"

	"github.com/bft-labs/mailsink"
)

// ExampleNew demonstrates how to embed mailsink in your application.
func ExampleNew() {
	// Create configuration
	cfg := mailsink.DefaultConfig()
	cfg.Host = "smtp.example.com"
	cfg.From = "alerts@example.com"
	cfg.To = []string{"oncall@example.com"}
	cfg.Subject = "service alerts"
	cfg.Level = mailsink.LevelError

	// Create the sink
	sink, err := mailsink.New(cfg)
	if err != nil {
		fmt.Printf("failed to create sink: %v\n", err)
		return
	}

	// Open the connection state (non-blocking, no network I/O yet)
	if err := sink.Configure(); err != nil {
		fmt.Printf("failed to configure: %v\n", err)
		return
	}

	// Log calls buffer without blocking; delivery happens in the background
	sink.Error("disk usage above 90%")
	fmt.Printf("buffered without blocking: %v\n", sink.Configured())

	// Close flushes any partially filled buffer; the context bounds how
	// long we wait for in-flight deliveries
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = sink.Close(ctx)

	// Output: buffered without blocking: true
}

// Example_withErrorReporter demonstrates how to observe failed deliveries.
func Example_withErrorReporter() {
	reporter := mailsink.ReporterFunc(func(batch *mailsink.Batch, err error) {
		fmt.Printf("lost %d records: %v\n", batch.Size(), err)
	})

	cfg := mailsink.DefaultConfig()
	cfg.Host = "smtp.example.com"
	cfg.From = "alerts@example.com"
	cfg.To = []string{"oncall@example.com"}

	sink, err := mailsink.New(cfg, mailsink.WithErrorReporter(reporter))
	if err != nil {
		fmt.Printf("failed to create sink: %v\n", err)
		return
	}

	_ = sink // Use sink...
}

// Example_withDeliverer demonstrates dependency injection for testing.
func Example_withDeliverer() {
	// A deliverer that records batches instead of speaking SMTP
	captured := &capturingDeliverer{}

	cfg := mailsink.DefaultConfig()
	cfg.Host = "smtp.example.com"
	cfg.From = "alerts@example.com"
	cfg.To = []string{"oncall@example.com"}

	sink, err := mailsink.New(cfg, mailsink.WithDeliverer(captured))
	if err != nil {
		fmt.Printf("failed to create sink: %v\n", err)
		return
	}

	_ = sink // Use in tests...
}

// capturingDeliverer implements mailsink.Deliverer for testing.
type capturingDeliverer struct {
	batches []*mailsink.Batch
}

func (d *capturingDeliverer) Deliver(_ context.Context, batch *mailsink.Batch) error {
	d.batches = append(d.batches, batch)
	return nil
}
