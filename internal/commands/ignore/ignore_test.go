package ignore

import (
	"context"
	"testing"

	"github.com/PancyStudios/NoAdsHereGo/internal/commands/cmdutil"
	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/database"
	"github.com/PancyStudios/NoAdsHereGo/pkg/discord"
	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddListRemoveIgnore(t *testing.T) {
	ignores := moderation.NewIgnoreResolver(database.NewMemoryStore())
	ctx := context.Background()

	embed, err := addIgnore(ctx, ignores, "g1", models.IgnoreTypeUser, "42", models.CategoryInvite)
	require.NoError(t, err)
	assert.Equal(t, discord.ColorSuccess, embed.Color)
	assert.Contains(t, embed.Description, "<@42>")

	embed, err = addIgnore(ctx, ignores, "g1", models.IgnoreTypeUser, "42", models.CategoryInvite)
	require.NoError(t, err)
	assert.Equal(t, discord.ColorWarn, embed.Color)

	list, err := ignores.ListIgnores(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	embed, err = listIgnores(ctx, ignores, "g1")
	require.NoError(t, err)
	assert.Contains(t, embed.Description, list[0].ID)

	_, err = removeIgnore(ctx, ignores, "g1", list[0].ID)
	require.NoError(t, err)

	_, err = removeIgnore(ctx, ignores, "g1", list[0].ID)
	var userErr cmdutil.UserError
	assert.ErrorAs(t, err, &userErr)
}

func TestAddIgnoreRequiresTarget(t *testing.T) {
	ignores := moderation.NewIgnoreResolver(database.NewMemoryStore())

	_, err := addIgnore(context.Background(), ignores, "g1", models.IgnoreTypeRole, "", models.CategoryAll)
	var userErr cmdutil.UserError
	assert.ErrorAs(t, err, &userErr)
}
