package message_test

import (
	"encoding/json"
	"testing"

	"github.com/botpass/relay/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	t.Run("accepts the four enumerated values", func(t *testing.T) {
		cases := map[string]message.Kind{
			"status":  message.KindStatus,
			"message": message.KindMessage,
			"error":   message.KindError,
			"event":   message.KindEvent,
		}
		for raw, want := range cases {
			got, err := message.ParseKind(raw)
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Equal(t, raw, got.String())
		}
	})

	t.Run("rejects anything else", func(t *testing.T) {
		for _, raw := range []string{"", "bogus", "notification", "Message", "STATUS"} {
			_, err := message.ParseKind(raw)
			require.Error(t, err, "expected %q to be rejected", raw)
		}
	})
}

func TestKindJSON(t *testing.T) {
	t.Run("marshals as its string form", func(t *testing.T) {
		out, err := json.Marshal(message.KindEvent)
		require.NoError(t, err)
		assert.Equal(t, `"event"`, string(out))
	})

	t.Run("unmarshals from its string form", func(t *testing.T) {
		var k message.Kind
		require.NoError(t, json.Unmarshal([]byte(`"error"`), &k))
		assert.Equal(t, message.KindError, k)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		var k message.Kind
		require.Error(t, json.Unmarshal([]byte(`"notification"`), &k))
	})
}
