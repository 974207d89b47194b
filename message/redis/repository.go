package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/botpass/relay/message"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of message.Store
 * Each message document is a hash keyed msg:{id}; a per-bot sorted set ordered
 * by receipt time serves the query-by-bot capability
 */

const (
	hashPrefix  = "msg"
	indexPrefix = "msgs:bot" // msgs:bot:{bot_id} -> sorted set of message ids
)

type Repository struct {
	client *redis.Client
}

// NewRepository wraps an existing Redis client as a message store
func NewRepository(client *redis.Client) *Repository {
	return &Repository{client: client}
}

// Create persists a canonical message document
func (r *Repository) Create(ctx context.Context, m message.Message) error {
	dataJSON, err := json.Marshal(m.Data)
	if err != nil {
		return fmt.Errorf("marshaling message data: %w", err)
	}

	hashKey := docKey(m.ID)
	err = r.client.HSet(ctx, hashKey, map[string]interface{}{
		"id":           m.ID,
		"botId":        m.BotID,
		"message_type": m.Kind.String(),
		"content":      m.Content,
		"timestamp":    m.Timestamp.Format(time.RFC3339Nano),
		"received_at":  m.ReceivedAt.Format(time.RFC3339Nano),
		"data":         string(dataJSON),
		"request_id":   m.RequestID,
	}).Err()
	if err != nil {
		return fmt.Errorf("storing message: %w", err)
	}

	err = r.client.ZAdd(ctx, indexKey(m.BotID), redis.Z{
		Score:  float64(m.ReceivedAt.UnixNano()),
		Member: m.ID,
	}).Err()
	if err != nil {
		return fmt.Errorf("indexing message: %w", err)
	}

	return nil
}

// GetByBotID returns up to limit persisted messages for one bot, newest first
func (r *Repository) GetByBotID(ctx context.Context, botID string, limit int) ([]message.Message, error) {
	if limit < 1 {
		limit = 50
	}

	ids, err := r.client.ZRevRange(ctx, indexKey(botID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading message index: %w", err)
	}

	messages := make([]message.Message, 0, len(ids))
	for _, id := range ids {
		m, err := r.get(ctx, id)
		if err == redis.Nil {
			// Document evicted or deleted after the index entry was read.
			continue
		}
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, nil
}

func (r *Repository) get(ctx context.Context, id string) (message.Message, error) {
	data, err := r.client.HGetAll(ctx, docKey(id)).Result()
	if err != nil {
		return message.Message{}, fmt.Errorf("getting message: %w", err)
	}
	if len(data) == 0 {
		return message.Message{}, redis.Nil
	}

	kind, err := message.ParseKind(data["message_type"])
	if err != nil {
		return message.Message{}, fmt.Errorf("parsing stored message type: %w", err)
	}

	extras := map[string]any{}
	if raw, ok := data["data"]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &extras); err != nil {
			return message.Message{}, fmt.Errorf("unmarshaling message data: %w", err)
		}
	}

	timestamp, err := time.Parse(time.RFC3339Nano, data["timestamp"])
	if err != nil {
		return message.Message{}, fmt.Errorf("parsing message timestamp: %w", err)
	}
	receivedAt, err := time.Parse(time.RFC3339Nano, data["received_at"])
	if err != nil {
		return message.Message{}, fmt.Errorf("parsing message receipt time: %w", err)
	}

	return message.Message{
		ID:         data["id"],
		BotID:      data["botId"],
		Kind:       kind,
		Content:    data["content"],
		Timestamp:  timestamp,
		ReceivedAt: receivedAt,
		Data:       extras,
		RequestID:  data["request_id"],
	}, nil
}

func docKey(id string) string {
	return fmt.Sprintf("%s:%s", hashPrefix, id)
}

func indexKey(botID string) string {
	return fmt.Sprintf("%s:%s", indexPrefix, botID)
}
