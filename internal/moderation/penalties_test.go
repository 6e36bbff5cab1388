package moderation

import (
	"context"
	"sync"
	"testing"

	"github.com/PancyStudios/NoAdsHereGo/pkg/database"
	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectPenalty(t *testing.T) {
	ladder := []models.Penalty{
		{PenaltyID: 1, Action: models.PenaltyNone, Threshold: 1},
		{PenaltyID: 2, Action: models.PenaltyWarn, Threshold: 3},
		{PenaltyID: 3, Action: models.PenaltyKick, Threshold: 5},
		{PenaltyID: 4, Action: models.PenaltyBan, Threshold: 6},
	}

	tests := []struct {
		count int
		found bool
		want  models.PenaltyAction
	}{
		{1, true, models.PenaltyNone},
		{2, false, ""},
		{3, true, models.PenaltyWarn},
		{4, false, ""},
		{5, true, models.PenaltyKick},
		{6, true, models.PenaltyBan},
		{7, false, ""},
	}

	for _, tt := range tests {
		p, ok := SelectPenalty(ladder, tt.count)
		assert.Equal(t, tt.found, ok, "count %d", tt.count)
		assert.Equal(t, tt.want, p.Action, "count %d", tt.count)
	}
}

func TestSelectPenaltyTieBreak(t *testing.T) {
	p, ok := SelectPenalty([]models.Penalty{
		{PenaltyID: 2, Action: models.PenaltyWarn, Threshold: 3},
		{PenaltyID: 7, Action: models.PenaltyKick, Threshold: 3},
		{PenaltyID: 5, Action: models.PenaltyBan, Threshold: 3},
	}, 3)
	require.True(t, ok)
	assert.Equal(t, 7, p.PenaltyID)
}

func TestPenaltyEvaluate(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	e := NewPenaltyEscalator(store, newFakePlatform())

	inserted, err := e.SeedDefaults(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 4, inserted)

	p, ok, err := e.Evaluate(ctx, "g1", "u1", 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.PenaltyWarn, p.Action)

	_, ok, err = e.Evaluate(ctx, "g1", "u1", 4)
	require.NoError(t, err)
	assert.False(t, ok)

	p, ok, err = e.Evaluate(ctx, "g1", "u1", 6)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.PenaltyBan, p.Action)
}

func TestSeedDefaultsKeepsCustomPenalties(t *testing.T) {
	ctx := context.Background()
	e := NewPenaltyEscalator(database.NewMemoryStore(), newFakePlatform())

	require.NoError(t, e.Set(ctx, models.Penalty{GuildID: "g1", PenaltyID: 2, Action: models.PenaltyBan, Threshold: 2}))

	inserted, err := e.SeedDefaults(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)

	inserted, err = e.SeedDefaults(ctx, "g1")
	require.NoError(t, err)
	assert.Zero(t, inserted)

	penalties, err := e.List(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, penalties, 4)
	assert.Equal(t, 1, penalties[0].Threshold)
	assert.Equal(t, models.PenaltyBan, penalties[1].Action, "custom penalty sorted by threshold")
}

func TestPenaltySetValidation(t *testing.T) {
	e := NewPenaltyEscalator(database.NewMemoryStore(), newFakePlatform())

	err := e.Set(context.Background(), models.Penalty{GuildID: "g1", PenaltyID: 1, Action: models.PenaltyWarn, Threshold: 0})
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	err = e.Set(context.Background(), models.Penalty{GuildID: "g1", PenaltyID: 1, Action: "mute", Threshold: 2})
	assert.Error(t, err)
}

func TestPenaltyExecute(t *testing.T) {
	ctx := context.Background()
	platform := newFakePlatform()
	e := NewPenaltyEscalator(database.NewMemoryStore(), platform)
	msg := Message{ID: "m1", GuildID: "g1", ChannelID: "c1", AuthorID: "u1"}

	require.NoError(t, e.Execute(ctx, msg, models.Penalty{Action: models.PenaltyNone, Threshold: 1}, models.CategoryInvite))
	require.NoError(t, e.Execute(ctx, msg, models.Penalty{Action: models.PenaltyWarn, Threshold: 3}, models.CategoryInvite))
	require.NoError(t, e.Execute(ctx, msg, models.Penalty{Action: models.PenaltyKick, Threshold: 5}, models.CategoryInvite))
	require.NoError(t, e.Execute(ctx, msg, models.Penalty{Action: models.PenaltyBan, Threshold: 6}, models.CategoryInvite))

	assert.Equal(t, []string{"u1"}, platform.warned)
	require.Len(t, platform.warnReasons, 1)
	assert.NotContains(t, platform.warnReasons[0], "<@", "the platform adds the mention")
	assert.Contains(t, platform.warnReasons[0], "Infracciones: 3")
	assert.Equal(t, []string{"u1"}, platform.kicked)
	assert.Equal(t, []string{"u1"}, platform.banned)

	platform.actionErr = ErrPermissionDenied
	err := e.Execute(ctx, msg, models.Penalty{Action: models.PenaltyBan, Threshold: 6}, models.CategoryInvite)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestConcurrentAddViolation(t *testing.T) {
	ctx := context.Background()
	tracker := NewViolationTracker(database.NewMemoryStore())
	const n = 100

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tracker.AddViolation(ctx, "g1", "u1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := tracker.Count(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, n, count)

	require.NoError(t, tracker.Reset(ctx, "g1", "u1"))
	count, err = tracker.Count(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Zero(t, count)
}
