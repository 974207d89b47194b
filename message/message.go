package message

import "time"

/* Message is the canonical record built from a valid inbound webhook call
 * Uses value semantics as it represents data, not behavior
 * Immutable once constructed; never mutated after it leaves Ingest
 */
type Message struct {
	ID         string         `json:"id"`
	BotID      string         `json:"botId"`
	Kind       Kind           `json:"messageType"`
	Content    string         `json:"content"`
	Timestamp  time.Time      `json:"timestamp"`
	ReceivedAt time.Time      `json:"receivedAt"`
	Data       map[string]any `json:"data"`
	RequestID  string         `json:"requestId"`
}

// Incoming is the decoded inbound payload before validation.
// Timestamp is kept as the caller-supplied string; it is parsed (or defaulted
// to the server clock) during ingestion.
type Incoming struct {
	BotID       string         `json:"botId"`
	MessageType string         `json:"messageType"`
	Content     string         `json:"content"`
	Timestamp   string         `json:"timestamp,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
	RequestID   string         `json:"-"`
}
