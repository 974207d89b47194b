package bots

import (
	"context"

	"github.com/rs/zerolog"
)

// DefaultAllowedBots is the fallback allow-list used for local testing and
// bootstrap, before any bots are registered in the directory.
var DefaultAllowedBots = []string{
	"9U8JhxaBe8Fv8OtLq4KN",
	"test-bot-from-n8n",
	"test-bot-from-curl",
	"test-bot-2",
	"test-bot-3",
}

/* Verifier implements Checker against a fallback allow-list plus the directory
 * Directory errors degrade to the allow-list result instead of failing the
 * request: ingestion must not be blocked by store unavailability, at the cost
 * of identity truth being only as strong as the allow-list while the store is
 * down
 */
type Verifier struct {
	fallback map[string]struct{}
	dir      Directory
	log      zerolog.Logger
}

// NewVerifier creates a Verifier. The directory may be nil, in which case only
// the allow-list is consulted.
func NewVerifier(allowed []string, dir Directory, log zerolog.Logger) *Verifier {
	fallback := make(map[string]struct{}, len(allowed))
	for _, id := range allowed {
		fallback[id] = struct{}{}
	}
	return &Verifier{
		fallback: fallback,
		dir:      dir,
		log:      log.With().Str("component", "bot-verifier").Logger(),
	}
}

// Known reports whether the bot identifier is currently recognized.
// Check order: allow-list, directory document ID, then the custom "botId"
// field on any document.
func (v *Verifier) Known(ctx context.Context, botID string) bool {
	if _, ok := v.fallback[botID]; ok {
		return true
	}
	if v.dir == nil {
		return false
	}

	found, err := v.dir.Exists(ctx, botID)
	if err != nil {
		v.log.Error().Err(err).Str("bot_id", botID).Msg("bot directory lookup failed, degrading to allow-list")
		return false
	}
	if found {
		return true
	}

	found, err = v.dir.ExistsByField(ctx, "botId", botID)
	if err != nil {
		v.log.Error().Err(err).Str("bot_id", botID).Msg("bot directory field query failed, degrading to allow-list")
		return false
	}
	return found
}
