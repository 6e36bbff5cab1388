package moderation

import (
	"context"
	"testing"
	"time"

	"github.com/PancyStudios/NoAdsHereGo/pkg/database"
	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore("stored-master")
	platform := newFakePlatform()

	svc := NewService(Config{
		Store:      store,
		Platform:   platform,
		Masters:    []string{"env-master"},
		Dispatcher: DispatcherOptions{Workers: 2, QueueSize: 4, Timeout: time.Second},
	})
	svc.Start(ctx)

	assert.True(t, svc.Ignores.IsMaster("stored-master"))
	assert.True(t, svc.Ignores.IsMaster("env-master"))

	setup, err := svc.PrepareGuild(ctx, "g1", true)
	require.NoError(t, err)
	assert.True(t, setup.Seeded)
	assert.True(t, setup.Inactive)

	penalties, err := svc.Penalties.List(ctx, "g1")
	require.NoError(t, err)
	assert.Len(t, penalties, 4)

	blocks, err := svc.Blocks(ctx, "g1")
	require.NoError(t, err)
	assert.Len(t, blocks, len(models.Categories))
	for _, b := range blocks {
		assert.False(t, b.IsEnabled)
	}

	setup, err = svc.PrepareGuild(ctx, "g1", true)
	require.NoError(t, err)
	assert.False(t, setup.Seeded)
	assert.False(t, setup.Inactive, "blocks exist after the first listing")

	_, err = svc.Rules.Enable(ctx, models.CategoryInvite, "g1")
	require.NoError(t, err)
	require.NoError(t, svc.Dispatcher.Submit(ctx, inviteMessage("m1", "u1")))

	svc.Stop()
	assert.Equal(t, []string{"m1"}, platform.deleted)
	assert.False(t, svc.Rules.IsActive(models.CategoryInvite, "g1"))
}

func TestPrepareGuildSeedsOnlyEmptyGuilds(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	svc := NewService(Config{Store: store, Platform: newFakePlatform()})
	svc.Start(ctx)
	defer svc.Stop()

	// Added while offline: not a fresh join, but nothing stored yet
	setup, err := svc.PrepareGuild(ctx, "g1", false)
	require.NoError(t, err)
	assert.True(t, setup.Seeded)
	assert.True(t, setup.Inactive)

	removed, err := svc.Penalties.Remove(ctx, "g1", 2)
	require.NoError(t, err)
	require.True(t, removed)

	setup, err = svc.PrepareGuild(ctx, "g1", false)
	require.NoError(t, err)
	assert.False(t, setup.Seeded, "a deleted penalty stays deleted")

	penalties, err := svc.Penalties.List(ctx, "g1")
	require.NoError(t, err)
	assert.Len(t, penalties, 3)
}
