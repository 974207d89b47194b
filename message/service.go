package message

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/botpass/relay/bots"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

/* Service represents the ingestion business logic
 * Validation and the identity check run synchronously; the three downstream
 * sinks (buffer, fan-out, store) are independent of one another's success
 */

// Publisher fans an ingested message out to connected real-time subscribers
type Publisher interface {
	Publish(m Message)
}

// UseCase defines the ingestion operations exposed over HTTP
type UseCase interface {
	Ingest(ctx context.Context, in Incoming) (Message, error)
	Recent() []Message
	RecentByBot(ctx context.Context, botID string, limit int) ([]Message, error)
}

type Service struct {
	checker   bots.Checker
	buffer    *RecentBuffer
	publisher Publisher
	store     Store
	log       zerolog.Logger

	// storeTimeout bounds the asynchronous document-store write.
	storeTimeout time.Duration

	ingested atomic.Int64
	writes   sync.WaitGroup
}

// NewService creates an ingestion service with dependency injection.
// Publisher and store may be nil; the corresponding sink is skipped.
func NewService(checker bots.Checker, buffer *RecentBuffer, publisher Publisher, store Store, log zerolog.Logger) *Service {
	return &Service{
		checker:      checker,
		buffer:       buffer,
		publisher:    publisher,
		store:        store,
		log:          log.With().Str("component", "ingestion").Logger(),
		storeTimeout: 10 * time.Second,
	}
}

// Ingest validates and normalizes an inbound payload into a canonical Message,
// then hands it to the buffer, the fan-out publisher, and the store writer.
func (s *Service) Ingest(ctx context.Context, in Incoming) (Message, error) {
	kind, err := validate(in)
	if err != nil {
		return Message{}, err
	}

	if !s.checker.Known(ctx, in.BotID) {
		return Message{}, &UnknownBotError{BotID: in.BotID}
	}

	now := time.Now()
	m := Message{
		ID:         uuid.New().String(),
		BotID:      in.BotID,
		Kind:       kind,
		Content:    in.Content,
		Timestamp:  originTimestamp(in.Timestamp, now),
		ReceivedAt: now,
		Data:       in.Data,
		RequestID:  in.RequestID,
	}
	if m.Data == nil {
		m.Data = map[string]any{}
	}

	s.buffer.Push(m)
	s.ingested.Add(1)

	if s.publisher != nil {
		s.publisher.Publish(m)
	}

	if s.store != nil {
		s.writes.Add(1)
		go s.persist(m)
	}

	s.log.Info().
		Str("message_id", m.ID).
		Str("bot_id", m.BotID).
		Str("kind", m.Kind.String()).
		Str("request_id", m.RequestID).
		Msg("message ingested")

	return m, nil
}

// Recent returns the in-memory buffer contents, newest first
func (s *Service) Recent() []Message {
	return s.buffer.List()
}

// RecentByBot reads persisted messages for one bot back from the store
func (s *Service) RecentByBot(ctx context.Context, botID string, limit int) ([]Message, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.GetByBotID(ctx, botID, limit)
}

// Total returns the number of messages ingested since process start
func (s *Service) Total() int64 {
	return s.ingested.Load()
}

// Close waits for in-flight store writes to finish
func (s *Service) Close() {
	s.writes.Wait()
}

/* persist is the best-effort store sink: the HTTP response has already been
 * decided by the time it runs, so failures are logged and swallowed
 */
func (s *Service) persist(m Message) {
	defer s.writes.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.storeTimeout)
	defer cancel()

	if err := s.store.Create(ctx, m); err != nil {
		s.log.Error().Err(err).
			Str("message_id", m.ID).
			Str("bot_id", m.BotID).
			Msg("persisting message failed")
	}
}

// validate collects every missing or invalid required field before failing
func validate(in Incoming) (Kind, error) {
	var fields []string
	if in.BotID == "" {
		fields = append(fields, "botId")
	}
	if in.MessageType == "" {
		fields = append(fields, "messageType")
	}
	if in.Content == "" {
		fields = append(fields, "content")
	}

	var kind Kind
	if in.MessageType != "" {
		parsed, err := ParseKind(in.MessageType)
		if err != nil {
			fields = append(fields, "messageType")
		} else {
			kind = parsed
		}
	}

	if len(fields) > 0 {
		return 0, &ValidationError{Fields: fields}
	}
	return kind, nil
}

// originTimestamp parses the caller-supplied timestamp, defaulting to the
// server clock when absent or unparseable (the relay is lenient here on
// purpose: a bad caller clock should not reject the message).
func originTimestamp(raw string, now time.Time) time.Time {
	if raw == "" {
		return now
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		ts, err = time.Parse(time.RFC3339, raw)
	}
	if err != nil {
		return now
	}
	return ts
}
