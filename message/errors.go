package message

import (
	"fmt"
	"strings"
)

// ValidationError reports every field that failed inbound validation,
// not just the first one encountered.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

// UnknownBotError is returned when the bot identifier is not recognized
// by the fallback allow-list or the bot directory.
type UnknownBotError struct {
	BotID string
}

func (e *UnknownBotError) Error() string {
	return fmt.Sprintf("invalid botId: %s", e.BotID)
}
