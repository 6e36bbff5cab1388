package blocks

import (
	"context"
	"testing"

	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/database"
	"github.com/PancyStudios/NoAdsHereGo/pkg/discord"
	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRules(t *testing.T) *moderation.RuleCache {
	t.Helper()
	rules := moderation.NewRuleCache(database.NewMemoryStore())
	rules.Populate()
	return rules
}

func TestSetBlock(t *testing.T) {
	rules := newRules(t)
	ctx := context.Background()

	embed, err := setBlock(ctx, rules, "g1", models.CategoryInvite, true)
	require.NoError(t, err)
	assert.Equal(t, discord.ColorSuccess, embed.Color)
	assert.Contains(t, embed.Description, "activado")
	assert.True(t, rules.IsActive(models.CategoryInvite, "g1"))

	embed, err = setBlock(ctx, rules, "g1", models.CategoryInvite, true)
	require.NoError(t, err)
	assert.Equal(t, discord.ColorWarn, embed.Color)
	assert.Contains(t, embed.Description, "ya estaba activado")

	embed, err = setBlock(ctx, rules, "g1", models.CategoryInvite, false)
	require.NoError(t, err)
	assert.Equal(t, discord.ColorSuccess, embed.Color)
	assert.False(t, rules.IsActive(models.CategoryInvite, "g1"))
}

func TestListBlocks(t *testing.T) {
	rules := newRules(t)
	ctx := context.Background()

	_, err := rules.Enable(ctx, models.CategoryYoutube, "g1")
	require.NoError(t, err)

	embed, err := listBlocks(ctx, rules, "g1")
	require.NoError(t, err)
	assert.Contains(t, embed.Description, "🟢 "+models.CategoryYoutube.Label())
	assert.Contains(t, embed.Description, "🔴 "+models.CategoryInvite.Label())
}
