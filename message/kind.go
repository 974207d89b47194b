package message

import (
	"encoding/json"
	"fmt"
)

/* Kind classifies an inbound bot message
 * Only the four values below are accepted at the ingestion boundary
 */
type Kind int

const (
	KindStatus Kind = iota + 1
	KindMessage
	KindError
	KindEvent
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindMessage:
		return "message"
	case KindError:
		return "error"
	case KindEvent:
		return "event"
	default:
		return "unknown"
	}
}

// ParseKind creates a Kind from its string form, rejecting anything outside
// the enumerated set
func ParseKind(s string) (Kind, error) {
	switch s {
	case "status":
		return KindStatus, nil
	case "message":
		return KindMessage, nil
	case "error":
		return KindError, nil
	case "event":
		return KindEvent, nil
	default:
		return 0, fmt.Errorf("invalid message type: %q", s)
	}
}

// Validate checks if the kind is valid
func (k Kind) Validate() error {
	if k < KindStatus || k > KindEvent {
		return fmt.Errorf("invalid message kind: %d", k)
	}
	return nil
}

// MarshalJSON encodes the kind as its string form
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON parses the string form of the kind
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("unmarshaling message kind: %w", err)
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
