package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/botpass/relay/bots"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of the bots.Directory capability
 * Each bot document is a hash keyed bot:{id}; field queries scan the keyspace,
 * which is fine at the collection sizes the relay sees
 */

const keyPrefix = "bot"

type Repository struct {
	client *redis.Client
}

// NewRepository wraps an existing Redis client as a bot directory
func NewRepository(client *redis.Client) *Repository {
	return &Repository{client: client}
}

// Exists reports whether a bot document with the given identifier exists
func (r *Repository) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, docKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("checking bot existence: %w", err)
	}
	return n > 0, nil
}

// ExistsByField reports whether any bot document carries the given field value
func (r *Repository) ExistsByField(ctx context.Context, field, value string) (bool, error) {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, keyPrefix+":*", 100).Result()
		if err != nil {
			return false, fmt.Errorf("scanning bot keys: %w", err)
		}

		for _, key := range keys {
			got, err := r.client.HGet(ctx, key, field).Result()
			if err == redis.Nil {
				continue
			}
			if err != nil {
				return false, fmt.Errorf("reading bot field: %w", err)
			}
			if got == value {
				return true, nil
			}
		}

		cursor = next
		if cursor == 0 {
			return false, nil
		}
	}
}

// Create stores a bot document. Used by seeding and tests; the relay itself
// only reads the directory.
func (r *Repository) Create(ctx context.Context, b bots.Bot) error {
	if b.ID == "" {
		return fmt.Errorf("bot id cannot be empty")
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}

	err := r.client.HSet(ctx, docKey(b.ID), map[string]interface{}{
		"id":         b.ID,
		"name":       b.Name,
		"botId":      b.BotID,
		"created_at": b.CreatedAt.Unix(),
	}).Err()
	if err != nil {
		return fmt.Errorf("storing bot: %w", err)
	}
	return nil
}

func docKey(id string) string {
	return fmt.Sprintf("%s:%s", keyPrefix, id)
}
