package delivery

import (
	"fmt"
	"time"

	"github.com/botpass/relay/subscription"
	"github.com/google/uuid"
)

/* Payload is the JSON body delivered to subscriber URLs
 * One payload is constructed per trigger and shared by every subscriber's
 * delivery chain
 */
type Payload struct {
	ID        string                 `json:"id"`
	Type      subscription.EventType `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]any         `json:"data"`
}

// NewPayload builds a payload for the given event. The data bag must carry a
// non-empty agentId identifying the bot the event concerns.
func NewPayload(eventType subscription.EventType, data map[string]any) (Payload, error) {
	if err := eventType.Validate(); err != nil {
		return Payload{}, err
	}

	agentID, _ := data["agentId"].(string)
	if agentID == "" {
		return Payload{}, fmt.Errorf("event data must include a non-empty agentId")
	}

	return Payload{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}, nil
}
