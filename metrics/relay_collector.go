package metrics

import (
	"context"
	"time"
)

/* RelayCollector reads counters straight from the in-process components
 * Small read-only interfaces keep the metrics package from importing the
 * domain packages
 */

// BufferStats is implemented by the recent message buffer
type BufferStats interface {
	Len() int
}

// IngestStats is implemented by the ingestion service
type IngestStats interface {
	Total() int64
}

// FanOutStats is implemented by the real-time hub
type FanOutStats interface {
	SubscriberCount() int
}

// RegistryStats is implemented by the subscription registry
type RegistryStats interface {
	Count() int
}

// DeliveryStats is implemented by the delivery history
type DeliveryStats interface {
	Counts() (succeeded, failed int64)
}

type RelayCollector struct {
	buffer     BufferStats
	ingest     IngestStats
	fanout     FanOutStats
	registry   RegistryStats
	deliveries DeliveryStats
}

// NewRelayCollector creates a collector over the relay's process-wide state
func NewRelayCollector(buffer BufferStats, ingest IngestStats, fanout FanOutStats, registry RegistryStats, deliveries DeliveryStats) *RelayCollector {
	return &RelayCollector{
		buffer:     buffer,
		ingest:     ingest,
		fanout:     fanout,
		registry:   registry,
		deliveries: deliveries,
	}
}

// Collect gathers a snapshot of the relay's current state
func (c *RelayCollector) Collect(ctx context.Context) (Snapshot, error) {
	succeeded, failed := c.deliveries.Counts()
	return Snapshot{
		BufferSize:          int64(c.buffer.Len()),
		MessagesIngested:    c.ingest.Total(),
		Subscribers:         int64(c.fanout.SubscriberCount()),
		Subscriptions:       int64(c.registry.Count()),
		DeliveriesSucceeded: succeeded,
		DeliveriesFailed:    failed,
		Timestamp:           time.Now(),
	}, nil
}
