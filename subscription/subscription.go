package subscription

import (
	"fmt"
	"net/url"
	"time"
)

/* EventType enumerates the application events an outbound subscription can
 * register for
 */
type EventType string

const (
	AgentUpdate   EventType = "agent.update"
	AgentCall     EventType = "agent.call"
	AgentResponse EventType = "agent.response"
	AgentError    EventType = "agent.error"
)

// Validate checks if the event type is one of the enumerated values
func (e EventType) Validate() error {
	switch e {
	case AgentUpdate, AgentCall, AgentResponse, AgentError:
		return nil
	default:
		return fmt.Errorf("invalid event type: %q", e)
	}
}

/* Subscription is a registered outbound webhook target
 * Uses value semantics as it represents data, not behavior
 */
type Subscription struct {
	ID        string      `json:"id"`
	URL       string      `json:"url"`
	Events    []EventType `json:"events"`
	Secret    string      `json:"secret,omitempty"`
	Active    bool        `json:"active"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Subscribed reports whether the subscription's event set contains e
func (s Subscription) Subscribed(e EventType) bool {
	for _, ev := range s.Events {
		if ev == e {
			return true
		}
	}
	return false
}

// Redacted returns a copy with the signing secret stripped, for read APIs.
// The secret is only shown once, at creation time.
func (s Subscription) Redacted() Subscription {
	s.Secret = ""
	return s
}

func validateTarget(target string) error {
	if target == "" {
		return fmt.Errorf("url cannot be empty")
	}
	u, err := url.ParseRequestURI(target)
	if err != nil {
		return fmt.Errorf("parsing url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https: %q", target)
	}
	if u.Host == "" {
		return fmt.Errorf("url host cannot be empty: %q", target)
	}
	return nil
}

func validateEvents(events []EventType) error {
	if len(events) == 0 {
		return fmt.Errorf("at least one event type is required")
	}
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}
