package subscription_test

import (
	"strings"
	"testing"

	"github.com/botpass/relay/delivery/signature"
	"github.com/botpass/relay/subscription"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeValidate(t *testing.T) {
	for _, e := range []subscription.EventType{
		subscription.AgentUpdate,
		subscription.AgentCall,
		subscription.AgentResponse,
		subscription.AgentError,
	} {
		assert.NoError(t, e.Validate())
	}
	assert.Error(t, subscription.EventType("agent.ping").Validate())
	assert.Error(t, subscription.EventType("").Validate())
}

func TestRegistryCreate(t *testing.T) {
	t.Run("returns a full subscription with a fresh secret", func(t *testing.T) {
		r := subscription.NewRegistry()

		sub, err := r.Create("https://example.com/hooks", []subscription.EventType{subscription.AgentUpdate})
		require.NoError(t, err)

		assert.NotEmpty(t, sub.ID)
		assert.True(t, sub.Active)
		assert.True(t, strings.HasPrefix(sub.Secret, signature.SecretPrefix))
		assert.False(t, sub.CreatedAt.IsZero())
		assert.Equal(t, 1, r.Count())
	})

	t.Run("rejects invalid urls", func(t *testing.T) {
		r := subscription.NewRegistry()
		events := []subscription.EventType{subscription.AgentCall}

		for _, target := range []string{"", "not-a-url", "ftp://example.com/x", "https://"} {
			_, err := r.Create(target, events)
			require.Error(t, err, "expected %q to be rejected", target)
		}
		assert.Zero(t, r.Count())
	})

	t.Run("rejects empty or unknown event sets", func(t *testing.T) {
		r := subscription.NewRegistry()

		_, err := r.Create("https://example.com/hooks", nil)
		require.Error(t, err)

		_, err = r.Create("https://example.com/hooks", []subscription.EventType{"agent.reboot"})
		require.Error(t, err)
	})
}

func TestRegistryAdd(t *testing.T) {
	t.Run("accepts a seeded subscription with a valid secret", func(t *testing.T) {
		r := subscription.NewRegistry()
		secret, err := signature.GenerateSecret(32)
		require.NoError(t, err)

		err = r.Add(subscription.Subscription{
			URL:    "https://example.com/hooks",
			Events: []subscription.EventType{subscription.AgentError},
			Secret: secret.String(),
			Active: true,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, r.Count())

		got := r.List()[0]
		assert.NotEmpty(t, got.ID, "id is generated when absent")
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("rejects an unparseable secret", func(t *testing.T) {
		r := subscription.NewRegistry()
		err := r.Add(subscription.Subscription{
			URL:    "https://example.com/hooks",
			Events: []subscription.EventType{subscription.AgentError},
			Secret: "hunter2",
		})
		require.Error(t, err)
	})

	t.Run("rejects a duplicate id", func(t *testing.T) {
		r := subscription.NewRegistry()
		secret, err := signature.GenerateSecret(32)
		require.NoError(t, err)

		sub := subscription.Subscription{
			ID:     "fixed-id",
			URL:    "https://example.com/hooks",
			Events: []subscription.EventType{subscription.AgentCall},
			Secret: secret.String(),
		}
		require.NoError(t, r.Add(sub))
		require.Error(t, r.Add(sub))
	})
}

func TestRegistryLookup(t *testing.T) {
	newSub := func(t *testing.T, r *subscription.Registry, url string, events ...subscription.EventType) subscription.Subscription {
		t.Helper()
		sub, err := r.Create(url, events)
		require.NoError(t, err)
		return sub
	}

	t.Run("get and delete", func(t *testing.T) {
		r := subscription.NewRegistry()
		sub := newSub(t, r, "https://example.com/a", subscription.AgentUpdate)

		got, ok := r.Get(sub.ID)
		require.True(t, ok)
		assert.Equal(t, sub.URL, got.URL)

		assert.True(t, r.Delete(sub.ID))
		assert.False(t, r.Delete(sub.ID))
		_, ok = r.Get(sub.ID)
		assert.False(t, ok)
	})

	t.Run("list preserves insertion order", func(t *testing.T) {
		r := subscription.NewRegistry()
		a := newSub(t, r, "https://example.com/a", subscription.AgentUpdate)
		b := newSub(t, r, "https://example.com/b", subscription.AgentUpdate)
		c := newSub(t, r, "https://example.com/c", subscription.AgentUpdate)
		r.Delete(b.ID)

		got := r.List()
		require.Len(t, got, 2)
		assert.Equal(t, a.ID, got[0].ID)
		assert.Equal(t, c.ID, got[1].ID)
	})

	t.Run("matching filters by event and active flag", func(t *testing.T) {
		r := subscription.NewRegistry()
		updates := newSub(t, r, "https://example.com/a", subscription.AgentUpdate)
		newSub(t, r, "https://example.com/b", subscription.AgentCall)
		newSub(t, r, "https://example.com/c", subscription.AgentUpdate, subscription.AgentError)

		got := r.Matching(subscription.AgentUpdate)
		require.Len(t, got, 2)
		assert.Equal(t, updates.ID, got[0].ID)

		assert.Empty(t, r.Matching(subscription.AgentResponse))
	})

	t.Run("redacted strips the secret", func(t *testing.T) {
		r := subscription.NewRegistry()
		sub := newSub(t, r, "https://example.com/a", subscription.AgentUpdate)
		assert.Empty(t, sub.Redacted().Secret)
		assert.NotEmpty(t, sub.Secret)
	})
}
