package bots

import (
	"context"
	"time"
)

/* Bot represents a registered external agent as stored in the bot directory
 * The relay only reads bots; registration happens in the wider product
 */
type Bot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	BotID     string    `json:"botId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Directory is the document-store capability over the `bots` collection:
// exact lookup by document identifier and query by a custom field.
type Directory interface {
	Exists(ctx context.Context, id string) (bool, error)
	ExistsByField(ctx context.Context, field, value string) (bool, error)
}

// Checker decides whether a candidate bot identifier is currently recognized
type Checker interface {
	Known(ctx context.Context, botID string) bool
}
