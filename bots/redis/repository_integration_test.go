//go:build integration

package redis_test

import (
	"context"
	"testing"

	"github.com/botpass/relay/bots"
	"github.com/botpass/relay/bots/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryIntegration(t *testing.T) {
	ctx := context.Background()
	rc, cleanup := SetupRedisContainer(t, ctx)
	defer cleanup()

	repo := redis.NewRepository(CreateTestClient(t, rc.Addr))

	require.NoError(t, repo.Create(ctx, bots.Bot{
		ID:    "doc-1",
		Name:  "First Bot",
		BotID: "custom-bot-id",
	}))
	require.NoError(t, repo.Create(ctx, bots.Bot{
		ID:   "doc-2",
		Name: "Second Bot",
	}))

	t.Run("exists by document id", func(t *testing.T) {
		found, err := repo.Exists(ctx, "doc-1")
		require.NoError(t, err)
		assert.True(t, found)

		found, err = repo.Exists(ctx, "doc-missing")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("exists by field", func(t *testing.T) {
		found, err := repo.ExistsByField(ctx, "botId", "custom-bot-id")
		require.NoError(t, err)
		assert.True(t, found)

		found, err = repo.ExistsByField(ctx, "botId", "no-such-bot")
		require.NoError(t, err)
		assert.False(t, found)

		found, err = repo.ExistsByField(ctx, "name", "Second Bot")
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("create rejects an empty id", func(t *testing.T) {
		require.Error(t, repo.Create(ctx, bots.Bot{}))
	})
}
