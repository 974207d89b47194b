package delivery_test

import (
	"encoding/json"
	"testing"

	"github.com/botpass/relay/delivery"
	"github.com/botpass/relay/subscription"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayload(t *testing.T) {
	t.Run("builds a payload with id and timestamp", func(t *testing.T) {
		p, err := delivery.NewPayload(subscription.AgentUpdate, map[string]any{
			"agentId": "bot-1",
			"status":  "online",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, p.ID)
		assert.Equal(t, subscription.AgentUpdate, p.Type)
		assert.False(t, p.Timestamp.IsZero())
		assert.Equal(t, "bot-1", p.Data["agentId"])
	})

	t.Run("rejects an unknown event type", func(t *testing.T) {
		_, err := delivery.NewPayload("agent.reboot", map[string]any{"agentId": "bot-1"})
		require.Error(t, err)
	})

	t.Run("requires a non-empty agentId", func(t *testing.T) {
		cases := map[string]map[string]any{
			"nil data":        nil,
			"missing agentId": {"status": "online"},
			"empty agentId":   {"agentId": ""},
			"wrong type":      {"agentId": 42},
		}
		for name, data := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := delivery.NewPayload(subscription.AgentUpdate, data)
				require.Error(t, err)
				assert.Contains(t, err.Error(), "agentId")
			})
		}
	})
}

func TestOutcome(t *testing.T) {
	t.Run("string forms", func(t *testing.T) {
		assert.Equal(t, "success", delivery.Succeeded.String())
		assert.Equal(t, "failed", delivery.Failed.String())
		assert.Equal(t, "unknown", delivery.Outcome(0).String())
	})

	t.Run("validate", func(t *testing.T) {
		assert.NoError(t, delivery.Succeeded.Validate())
		assert.NoError(t, delivery.Failed.Validate())
		assert.Error(t, delivery.Outcome(9).Validate())
	})

	t.Run("round-trips through JSON", func(t *testing.T) {
		out, err := json.Marshal(delivery.Failed)
		require.NoError(t, err)
		assert.Equal(t, `"failed"`, string(out))

		var o delivery.Outcome
		require.NoError(t, json.Unmarshal([]byte(`"success"`), &o))
		assert.Equal(t, delivery.Succeeded, o)

		require.Error(t, json.Unmarshal([]byte(`"dropped"`), &o))
	})
}
