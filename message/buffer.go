package message

import "sync"

// DefaultBufferCapacity caps the in-memory recent message buffer.
const DefaultBufferCapacity = 100

/* RecentBuffer holds the most recently ingested messages, newest first
 * In-memory only; contents are lost on restart. The external store is the
 * durable record
 */
type RecentBuffer struct {
	mu       sync.RWMutex
	messages []Message
	capacity int
}

// NewRecentBuffer creates a buffer capped at the given capacity.
// A capacity below 1 falls back to DefaultBufferCapacity.
func NewRecentBuffer(capacity int) *RecentBuffer {
	if capacity < 1 {
		capacity = DefaultBufferCapacity
	}
	return &RecentBuffer{
		messages: make([]Message, 0, capacity),
		capacity: capacity,
	}
}

// Push inserts a message at the front, truncating the oldest entries when
// the buffer exceeds its capacity.
func (b *RecentBuffer) Push(m Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.messages = append([]Message{m}, b.messages...)
	if len(b.messages) > b.capacity {
		b.messages = b.messages[:b.capacity]
	}
}

// List returns the buffered messages in newest-first order.
// The returned slice is a copy and safe to hold.
func (b *RecentBuffer) List() []Message {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Message, len(b.messages))
	copy(out, b.messages)
	return out
}

// Len returns the current number of buffered messages.
func (b *RecentBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.messages)
}
