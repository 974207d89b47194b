package message

import "context"

/* Small, focused interfaces in the spirit of the repository pattern
 * The external document store is consumed as a capability, not reimplemented
 */

// Writer persists canonical messages to the external document store
type Writer interface {
	Create(ctx context.Context, m Message) error
}

// Reader provides read-back of persisted messages
type Reader interface {
	GetByBotID(ctx context.Context, botID string, limit int) ([]Message, error)
}

// Store combines the document-store operations used by the relay
type Store interface {
	Reader
	Writer
}
