package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

func TestDisconnectedDatabase(t *testing.T) {
	db := NewDatabase()
	ctx := context.Background()

	assert.False(t, db.Connected())
	assert.Nil(t, db.GetCollection(BlocksCollection))

	_, err := db.Ping(ctx)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	status, ok := db.GetStatus()
	assert.False(t, ok)
	assert.Contains(t, status, "Desconectado")

	store := NewMongoStore(db)
	_, err = store.GetOrCreateBlock(ctx, "g1", models.CategoryInvite)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	_, err = store.IncrementViolator(ctx, "g1", "u1")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	_, err = store.ListIgnores(ctx, "g1", models.CategoryInvite)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, store.EnsureIndexes(ctx), ErrStorageUnavailable)
}

func TestMemoryStoreBlocks(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	blocks, err := s.ListBlocks(ctx, "g1")
	require.NoError(t, err)
	assert.Empty(t, blocks)

	block, err := s.GetOrCreateBlock(ctx, "g1", models.CategoryInvite)
	require.NoError(t, err)
	assert.False(t, block.IsEnabled)

	require.NoError(t, s.SetBlock(ctx, "g1", models.CategoryInvite, true))
	block, err = s.GetOrCreateBlock(ctx, "g1", models.CategoryInvite)
	require.NoError(t, err)
	assert.True(t, block.IsEnabled)

	blocks, err = s.ListBlocks(ctx, "g1")
	require.NoError(t, err)
	assert.Len(t, blocks, 1)
}

func TestMemoryStoreIgnoreScopes(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.AddIgnore(ctx, models.Ignore{ID: "a", GuildID: "g1", Category: models.CategoryInvite, IgnoreType: models.IgnoreTypeUser, TargetID: "u1"}))
	require.NoError(t, s.AddIgnore(ctx, models.Ignore{ID: "b", GuildID: "g1", Category: models.CategoryAll, IgnoreType: models.IgnoreTypeRole, TargetID: "r1"}))
	require.NoError(t, s.AddIgnore(ctx, models.Ignore{ID: "c", GuildID: "g2", Category: models.CategoryYoutube, IgnoreType: models.IgnoreTypeChannel, TargetID: "c1"}))

	invite, err := s.ListIgnores(ctx, "g1", models.CategoryInvite)
	require.NoError(t, err)
	assert.Len(t, invite, 2)

	youtube, err := s.ListIgnores(ctx, "g1", models.CategoryYoutube)
	require.NoError(t, err)
	require.Len(t, youtube, 1)
	assert.Equal(t, "b", youtube[0].ID)

	all, err := s.ListIgnores(ctx, "g1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	removed, err := s.RemoveIgnore(ctx, "g2", "a")
	require.NoError(t, err)
	assert.False(t, removed, "ignores of another guild cannot be removed")

	removed, err = s.RemoveIgnore(ctx, "g1", "a")
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestMemoryStorePenalties(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.UpsertPenalty(ctx, models.Penalty{GuildID: "g1", PenaltyID: 2, Action: models.PenaltyKick, Threshold: 2}))
	require.NoError(t, s.InsertPenalties(ctx, models.DefaultPenalties("g1")))

	penalties, err := s.ListPenalties(ctx, "g1")
	require.NoError(t, err)
	assert.Len(t, penalties, 4)
	for _, p := range penalties {
		if p.PenaltyID == 2 {
			assert.Equal(t, models.PenaltyKick, p.Action, "existing penalty must not be overwritten by the insert")
		}
	}

	removed, err := s.RemovePenalty(ctx, "g1", 4)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = s.RemovePenalty(ctx, "g1", 4)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestMemoryStoreConcurrentIncrements(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	const n = 200

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.IncrementViolator(ctx, "g1", "u1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	v, err := s.GetViolator(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, n, v.Violations)

	require.NoError(t, s.ResetViolator(ctx, "g1", "u1"))
	v, err = s.GetViolator(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Zero(t, v.Violations)
}

func TestMemoryStoreMasters(t *testing.T) {
	s := NewMemoryStore("m1", "m2")
	masters, err := s.ListMasters(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.Master{{UserID: "m1"}, {UserID: "m2"}}, masters)
}

func TestClassifyCallerContextKeepsConnection(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"deadline", fmt.Errorf("find: %w", context.DeadlineExceeded)},
		{"canceled", fmt.Errorf("update: %w", context.Canceled)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := NewDatabase()
			db.isConnected = true

			err := db.classify(tt.err)
			assert.ErrorIs(t, err, tt.err)
			assert.NotErrorIs(t, err, ErrStorageUnavailable)
			assert.True(t, db.Connected())
		})
	}
}

func TestClassifyConnectivityFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"network", mongo.CommandError{Code: 6, Message: "host unreachable", Labels: []string{"NetworkError"}}},
		{"server selection", topology.ServerSelectionError{Wrapped: errors.New("no reachable servers")}},
		{"client disconnected", mongo.ErrClientDisconnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := NewDatabase()
			db.isConnected = true
			defer db.Disconnect()

			err := db.classify(tt.err)
			assert.ErrorIs(t, err, ErrStorageUnavailable)
			assert.False(t, db.Connected())
		})
	}
}

func TestClassifyOtherErrorsPassThrough(t *testing.T) {
	db := NewDatabase()
	db.isConnected = true

	dup := mongo.CommandError{Code: 11000, Message: "duplicate key"}
	err := db.classify(dup)
	assert.Equal(t, dup, err)
	assert.True(t, db.Connected())
	assert.NoError(t, db.classify(nil))
}

func TestOnConnectHooks(t *testing.T) {
	db := NewDatabase()
	var first, second int

	db.OnConnect(func(ctx context.Context) error {
		first++
		return nil
	})
	assert.Equal(t, 0, first, "not connected yet")

	db.isConnected = true
	db.runHooks()
	assert.Equal(t, 1, first)

	db.OnConnect(func(ctx context.Context) error {
		second++
		return errors.New("index build failed")
	})
	assert.Equal(t, 1, second, "runs immediately while connected")

	db.runHooks()
	assert.Equal(t, 2, first)
	assert.Equal(t, 2, second)
}

func TestMongoStoreEnsuresIndexesOnConnect(t *testing.T) {
	db := NewDatabase()
	NewMongoStore(db)

	db.mu.RLock()
	defer db.mu.RUnlock()
	assert.Len(t, db.hooks, 1)
}
