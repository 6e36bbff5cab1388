package moderation

import (
	"context"
	"testing"

	"github.com/PancyStudios/NoAdsHereGo/pkg/database"
	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsExempt(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	r := NewIgnoreResolver(store)
	r.SetMasters([]string{"master"})

	_, _, err := r.AddIgnore(ctx, "g1", models.IgnoreTypeUser, "u-invite", models.CategoryInvite)
	require.NoError(t, err)
	_, _, err = r.AddIgnore(ctx, "g1", models.IgnoreTypeUser, "u-all", models.CategoryAll)
	require.NoError(t, err)
	_, _, err = r.AddIgnore(ctx, "g1", models.IgnoreTypeChannel, "c-youtube", models.CategoryYoutube)
	require.NoError(t, err)
	_, _, err = r.AddIgnore(ctx, "g1", models.IgnoreTypeRole, "r-streamer", models.CategoryTwitchStream)
	require.NoError(t, err)

	tests := []struct {
		name     string
		guild    string
		category models.Category
		user     string
		channel  string
		roles    []string
		want     bool
	}{
		{"master everywhere", "g9", models.CategoryInvite, "master", "c1", nil, true},
		{"user ignore on its category", "g1", models.CategoryInvite, "u-invite", "c1", nil, true},
		{"user ignore not on other categories", "g1", models.CategoryYoutube, "u-invite", "c1", nil, false},
		{"user ignore with all scope", "g1", models.CategoryTwitchClip, "u-all", "c1", nil, true},
		{"channel ignore", "g1", models.CategoryYoutube, "u1", "c-youtube", nil, true},
		{"channel ignore other category", "g1", models.CategoryInvite, "u1", "c-youtube", nil, false},
		{"role ignore", "g1", models.CategoryTwitchStream, "u1", "c1", []string{"r-other", "r-streamer"}, true},
		{"role ignore other category", "g1", models.CategoryInvite, "u1", "c1", []string{"r-streamer"}, false},
		{"ignores are per guild", "g2", models.CategoryInvite, "u-invite", "c1", nil, false},
		{"nobody", "g1", models.CategoryInvite, "u1", "c1", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.IsExempt(ctx, tt.guild, tt.category, tt.user, tt.channel, tt.roles)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsExemptStorageError(t *testing.T) {
	store := newFlakyStore()
	store.listIgnoreErr = ErrStorageUnavailable
	r := NewIgnoreResolver(store)
	r.SetMasters([]string{"master"})

	_, err := r.IsExempt(context.Background(), "g1", models.CategoryInvite, "u1", "c1", nil)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	// masters never touch storage
	exempt, err := r.IsExempt(context.Background(), "g1", models.CategoryInvite, "master", "c1", nil)
	require.NoError(t, err)
	assert.True(t, exempt)
}

func TestAddIgnoreDeduplicates(t *testing.T) {
	ctx := context.Background()
	r := NewIgnoreResolver(database.NewMemoryStore())

	first, created, err := r.AddIgnore(ctx, "g1", models.IgnoreTypeUser, "u1", models.CategoryInvite)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, first.ID)

	again, created, err := r.AddIgnore(ctx, "g1", models.IgnoreTypeUser, "u1", models.CategoryInvite)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	removed, err := r.RemoveIgnore(ctx, "g1", first.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	ignores, err := r.ListIgnores(ctx, "g1")
	require.NoError(t, err)
	assert.Empty(t, ignores)
}

func TestAllowed(t *testing.T) {
	ctx := context.Background()
	r := NewIgnoreResolver(database.NewMemoryStore())

	_, _, err := r.AddAllowString(ctx, "g1", models.IgnoreTypeChannel, "c-partners", "discord.gg/Partner1")
	require.NoError(t, err)
	_, _, err = r.AddAllowString(ctx, "g1", models.IgnoreTypeRole, "r-mod", "youtube.com")
	require.NoError(t, err)

	tests := []struct {
		name    string
		user    string
		channel string
		roles   []string
		values  []string
		want    bool
	}{
		{"allowed in channel", "u1", "c-partners", nil, []string{"discord.gg/partner1"}, true},
		{"other invite in channel", "u1", "c-partners", nil, []string{"discord.gg/partner1", "discord.gg/other123"}, false},
		{"not in channel", "u1", "c-general", nil, []string{"discord.gg/partner1"}, false},
		{"role scope", "u1", "c-general", []string{"r-mod"}, []string{"https://www.youtube.com/watch?v=abc"}, true},
		{"no values", "u1", "c-partners", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Allowed(ctx, "g1", tt.user, tt.channel, tt.roles, tt.values)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadMasters(t *testing.T) {
	r := NewIgnoreResolver(database.NewMemoryStore())
	err := r.LoadMasters(context.Background(), database.NewMemoryStore("stored"), []string{"configured", " "})
	require.NoError(t, err)

	assert.True(t, r.IsMaster("stored"))
	assert.True(t, r.IsMaster("configured"))
	assert.ElementsMatch(t, []string{"stored", "configured"}, r.Masters())
}
