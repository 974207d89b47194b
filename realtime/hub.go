package realtime

import (
	"fmt"
	"sync"

	"github.com/botpass/relay/message"
	"github.com/rs/zerolog"
)

// GlobalChannel is the channel every connected subscriber receives on.
const GlobalChannel = "messages"

// BotChannel returns the channel name for a bot-scoped subscription.
func BotChannel(botID string) string {
	return fmt.Sprintf("bot:%s", botID)
}

// Event is a message paired with the logical channel it was emitted on.
type Event struct {
	Channel string          `json:"channel"`
	Message message.Message `json:"message"`
}

/* Hub fans ingested messages out to connected subscribers
 * Delivery is at-most-once and best-effort: a subscriber whose buffer is full
 * has the event dropped, and nothing is replayed to late joiners. Publish
 * never blocks the ingestion path
 */
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscriber]struct{}
	log  zerolog.Logger
}

// Subscriber is one connected real-time client.
type Subscriber struct {
	events chan Event

	mu   sync.Mutex
	bots map[string]struct{}
}

// Events returns the subscriber's event feed. The channel is closed when the
// subscriber is removed from the hub.
func (s *Subscriber) Events() <-chan Event {
	return s.events
}

func (s *Subscriber) joined(botID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.bots[botID]
	return ok
}

// NewHub creates an empty hub
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		subs: make(map[*Subscriber]struct{}),
		log:  log.With().Str("component", "realtime-hub").Logger(),
	}
}

// Subscribe registers a new subscriber with the given event buffer size.
// Every subscriber receives the global channel; bot channels are joined
// explicitly via JoinBot.
func (h *Hub) Subscribe(buffer int) *Subscriber {
	if buffer < 1 {
		buffer = 16
	}
	s := &Subscriber{
		events: make(chan Event, buffer),
		bots:   make(map[string]struct{}),
	}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// JoinBot adds the subscriber to a bot-scoped channel. Idempotent.
func (h *Hub) JoinBot(s *Subscriber, botID string) {
	s.mu.Lock()
	s.bots[botID] = struct{}{}
	s.mu.Unlock()
}

// Unsubscribe removes the subscriber and closes its event feed. Safe to call
// once per subscriber.
func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.events)
	}
	h.mu.Unlock()
}

// Publish emits the message on the global channel to every subscriber, and on
// the bot channel to subscribers that joined it.
func (h *Hub) Publish(m message.Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs {
		h.send(s, Event{Channel: GlobalChannel, Message: m})
		if s.joined(m.BotID) {
			h.send(s, Event{Channel: BotChannel(m.BotID), Message: m})
		}
	}
}

// SubscriberCount returns the number of connected subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) send(s *Subscriber, ev Event) {
	select {
	case s.events <- ev:
	default:
		h.log.Warn().
			Str("channel", ev.Channel).
			Str("message_id", ev.Message.ID).
			Msg("subscriber buffer full, dropping event")
	}
}
