package penalty

import (
	"context"
	"strings"
	"testing"

	"github.com/PancyStudios/NoAdsHereGo/internal/commands/cmdutil"
	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/database"
	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEscalator(t *testing.T) *moderation.PenaltyEscalator {
	t.Helper()
	return moderation.NewPenaltyEscalator(database.NewMemoryStore(), nil)
}

func TestListPenaltiesOrdered(t *testing.T) {
	penalties := newEscalator(t)
	ctx := context.Background()

	_, err := penalties.SeedDefaults(ctx, "g1")
	require.NoError(t, err)

	embed, err := listPenalties(ctx, penalties, "g1")
	require.NoError(t, err)

	warn := "`#2` al llegar a **3** infracciones"
	ban := "`#4` al llegar a **6** infracciones"
	assert.Contains(t, embed.Description, warn)
	assert.Contains(t, embed.Description, ban)
	assert.Less(t, strings.Index(embed.Description, warn), strings.Index(embed.Description, ban))
}

func TestSetAndRemovePenalty(t *testing.T) {
	penalties := newEscalator(t)
	ctx := context.Background()

	_, err := setPenalty(ctx, penalties, models.Penalty{GuildID: "g1", PenaltyID: 9, Action: models.PenaltyKick, Threshold: 2})
	require.NoError(t, err)

	list, err := penalties.List(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.PenaltyKick, list[0].Action)

	_, err = removePenalty(ctx, penalties, "g1", 9)
	require.NoError(t, err)

	var userErr cmdutil.UserError
	_, err = removePenalty(ctx, penalties, "g1", 9)
	assert.ErrorAs(t, err, &userErr)
}

func TestSetPenaltyValidation(t *testing.T) {
	penalties := newEscalator(t)
	ctx := context.Background()

	var userErr cmdutil.UserError
	_, err := setPenalty(ctx, penalties, models.Penalty{GuildID: "g1", PenaltyID: 0, Action: models.PenaltyWarn, Threshold: 2})
	assert.ErrorAs(t, err, &userErr)

	_, err = setPenalty(ctx, penalties, models.Penalty{GuildID: "g1", PenaltyID: 1, Action: models.PenaltyWarn, Threshold: 0})
	assert.ErrorIs(t, err, moderation.ErrInvalidThreshold)
}
