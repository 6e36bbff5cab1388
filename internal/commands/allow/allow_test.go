package allow

import (
	"context"
	"strings"
	"testing"

	"github.com/PancyStudios/NoAdsHereGo/internal/commands/cmdutil"
	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/database"
	"github.com/PancyStudios/NoAdsHereGo/pkg/discord"
	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAllowString(t *testing.T) {
	ignores := moderation.NewIgnoreResolver(database.NewMemoryStore())
	ctx := context.Background()

	embed, err := addAllowString(ctx, ignores, "g1", models.IgnoreTypeChannel, "7", "  discord.gg/partner  ")
	require.NoError(t, err)
	assert.Equal(t, discord.ColorSuccess, embed.Color)
	assert.Contains(t, embed.Description, "`discord.gg/partner`")
	assert.Contains(t, embed.Description, "<#7>")

	embed, err = addAllowString(ctx, ignores, "g1", models.IgnoreTypeChannel, "7", "DISCORD.GG/partner")
	require.NoError(t, err)
	assert.Equal(t, discord.ColorWarn, embed.Color)

	embed, err = listAllowStrings(ctx, ignores, "g1")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(embed.Description, "\n"))
}

func TestAddAllowStringValidation(t *testing.T) {
	ignores := moderation.NewIgnoreResolver(database.NewMemoryStore())
	ctx := context.Background()
	var userErr cmdutil.UserError

	_, err := addAllowString(ctx, ignores, "g1", models.IgnoreTypeUser, "1", "   ")
	assert.ErrorAs(t, err, &userErr)

	_, err = addAllowString(ctx, ignores, "g1", models.IgnoreTypeUser, "1", strings.Repeat("a", maxAllowedLength+1))
	assert.ErrorAs(t, err, &userErr)
}
