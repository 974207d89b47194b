package metrics

import (
	"context"
	"time"
)

// Snapshot represents the current state of the relay.
type Snapshot struct {
	// BufferSize is the number of messages currently held in the recent buffer
	BufferSize int64 `json:"buffer_size"`

	// MessagesIngested is the total ingested since process start
	MessagesIngested int64 `json:"messages_ingested"`

	// Subscribers is the number of connected real-time subscribers
	Subscribers int64 `json:"subscribers"`

	// Subscriptions is the number of registered outbound subscriptions
	Subscriptions int64 `json:"subscriptions"`

	// DeliveriesSucceeded / DeliveriesFailed count attempts since process start
	DeliveriesSucceeded int64 `json:"deliveries_succeeded"`
	DeliveriesFailed    int64 `json:"deliveries_failed"`

	// Timestamp when the snapshot was collected
	Timestamp time.Time `json:"timestamp"`
}

// Collector defines the interface for collecting metrics from the relay.
type Collector interface {
	Collect(ctx context.Context) (Snapshot, error)
}
