package moderation

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/PancyStudios/NoAdsHereGo/pkg/database"
	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
)

var (
	_ Store = (*database.MemoryStore)(nil)
	_ Store = (*database.MongoStore)(nil)
)

type fakePlatform struct {
	mu          sync.Mutex
	canManage   bool
	permErr     error
	deleteErr   error
	actionErr   error
	permChecks  int
	deleted     []string
	warned      []string
	warnReasons []string
	kicked      []string
	banned      []string
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{canManage: true}
}

func (p *fakePlatform) CanManageMessages(ctx context.Context, channelID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.permChecks++
	return p.canManage, p.permErr
}

func (p *fakePlatform) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, messageID)
	return p.deleteErr
}

func (p *fakePlatform) Warn(ctx context.Context, guildID, channelID, userID, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.warned = append(p.warned, userID)
	p.warnReasons = append(p.warnReasons, reason)
	return p.actionErr
}

func (p *fakePlatform) Kick(ctx context.Context, guildID, userID, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.kicked = append(p.kicked, userID)
	return p.actionErr
}

func (p *fakePlatform) Ban(ctx context.Context, guildID, userID, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.banned = append(p.banned, userID)
	return p.actionErr
}

type fakeSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *fakeSink) Publish(ctx context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *fakeSink) ofType(t EventType) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, e := range s.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// flakyStore fails selected operations and counts block listings
type flakyStore struct {
	*database.MemoryStore
	setBlockErr   error
	listBlocksErr error
	listIgnoreErr error
	incrementErr  error
	listBlocks    atomic.Int32
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: database.NewMemoryStore()}
}

func (s *flakyStore) SetBlock(ctx context.Context, guildID string, category models.Category, enabled bool) error {
	if s.setBlockErr != nil {
		return s.setBlockErr
	}
	return s.MemoryStore.SetBlock(ctx, guildID, category, enabled)
}

func (s *flakyStore) ListBlocks(ctx context.Context, guildID string) ([]models.Block, error) {
	s.listBlocks.Add(1)
	if s.listBlocksErr != nil {
		return nil, s.listBlocksErr
	}
	return s.MemoryStore.ListBlocks(ctx, guildID)
}

func (s *flakyStore) ListIgnores(ctx context.Context, guildID string, category models.Category) ([]models.Ignore, error) {
	if s.listIgnoreErr != nil {
		return nil, s.listIgnoreErr
	}
	return s.MemoryStore.ListIgnores(ctx, guildID, category)
}

func (s *flakyStore) IncrementViolator(ctx context.Context, guildID, userID string) (int, error) {
	if s.incrementErr != nil {
		return 0, s.incrementErr
	}
	return s.MemoryStore.IncrementViolator(ctx, guildID, userID)
}
