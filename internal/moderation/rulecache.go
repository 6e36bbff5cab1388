package moderation

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/PancyStudios/NoAdsHereGo/pkg/logger"
	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
	"golang.org/x/sync/singleflight"
)

const setShards = 32

type setShard struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// guildSet is a set of guild IDs split across independently locked shards,
// so lookups for one guild never wait on writes to an unrelated one.
type guildSet struct {
	shards [setShards]setShard
}

func newGuildSet() *guildSet {
	s := &guildSet{}
	for i := range s.shards {
		s.shards[i].ids = make(map[string]struct{})
	}
	return s
}

func (s *guildSet) shard(id string) *setShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &s.shards[h.Sum32()%setShards]
}

// Add inserts id and reports whether it was absent
func (s *guildSet) Add(id string) bool {
	sh := s.shard(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.ids[id]; ok {
		return false
	}
	sh.ids[id] = struct{}{}
	return true
}

// Remove deletes id and reports whether it was present
func (s *guildSet) Remove(id string) bool {
	sh := s.shard(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.ids[id]; !ok {
		return false
	}
	delete(sh.ids, id)
	return true
}

func (s *guildSet) Has(id string) bool {
	sh := s.shard(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	_, ok := sh.ids[id]
	return ok
}

func (s *guildSet) Len() int {
	n := 0
	for i := range s.shards {
		s.shards[i].mu.RLock()
		n += len(s.shards[i].ids)
		s.shards[i].mu.RUnlock()
	}
	return n
}

// RuleCache answers whether a category is enforced in a guild without touching storage
type RuleCache struct {
	store  BlockStore
	mu     sync.RWMutex
	sets   map[models.Category]*guildSet
	loaded *guildSet
	group  singleflight.Group
}

// NewRuleCache creates an empty cache. Populate must be called before use.
func NewRuleCache(store BlockStore) *RuleCache {
	return &RuleCache{
		store:  store,
		sets:   make(map[models.Category]*guildSet),
		loaded: newGuildSet(),
	}
}

// Populate initializes an empty set for every known category
func (c *RuleCache) Populate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sets = make(map[models.Category]*guildSet, len(models.Categories))
	for _, category := range models.Categories {
		c.sets[category] = newGuildSet()
	}
	c.loaded = newGuildSet()
	logger.System(fmt.Sprintf("Caché de reglas inicializada con %d categorías", len(c.sets)), "RuleCache")
}

// Clear drops every set. The cache is unusable until Populate runs again.
func (c *RuleCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sets = make(map[models.Category]*guildSet)
	c.loaded = newGuildSet()
}

func (c *RuleCache) set(category models.Category) (*guildSet, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, ok := c.sets[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	return s, nil
}

func (c *RuleCache) loadedSet() *guildSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// LoadGuild reads the guild's blocks into the cache. Calls for a guild that is
// already loaded are no-ops and concurrent calls for the same guild share one read.
func (c *RuleCache) LoadGuild(ctx context.Context, guildID string) error {
	loaded := c.loadedSet()
	if loaded.Has(guildID) {
		return nil
	}

	_, err, _ := c.group.Do(guildID, func() (interface{}, error) {
		if loaded.Has(guildID) {
			return nil, nil
		}

		blocks, err := c.store.ListBlocks(ctx, guildID)
		if err != nil {
			return nil, fmt.Errorf("load rules for guild %s: %w", guildID, err)
		}

		for _, block := range blocks {
			if !block.IsEnabled {
				continue
			}
			s, err := c.set(block.Category)
			if err != nil {
				logger.Warn(fmt.Sprintf("Categoría desconocida '%s' en el servidor %s", block.Category, guildID), "RuleCache")
				continue
			}
			s.Add(guildID)
		}
		loaded.Add(guildID)
		return nil, nil
	})
	return err
}

// Loaded reports whether the guild's blocks have been read into the cache
func (c *RuleCache) Loaded(guildID string) bool {
	return c.loadedSet().Has(guildID)
}

// IsActive reports whether category is enforced in the guild
func (c *RuleCache) IsActive(category models.Category, guildID string) bool {
	s, err := c.set(category)
	if err != nil {
		return false
	}
	return s.Has(guildID)
}

// ActiveCategories lists the enforced categories of a guild in evaluation order
func (c *RuleCache) ActiveCategories(guildID string) []models.Category {
	active := make([]models.Category, 0, len(models.Categories))
	for _, category := range models.Categories {
		if c.IsActive(category, guildID) {
			active = append(active, category)
		}
	}
	return active
}

// Enable turns category on for the guild. It returns false when it was already on.
func (c *RuleCache) Enable(ctx context.Context, category models.Category, guildID string) (bool, error) {
	return c.toggle(ctx, category, guildID, true)
}

// Disable turns category off for the guild. It returns false when it was already off.
func (c *RuleCache) Disable(ctx context.Context, category models.Category, guildID string) (bool, error) {
	return c.toggle(ctx, category, guildID, false)
}

func (c *RuleCache) toggle(ctx context.Context, category models.Category, guildID string, enabled bool) (bool, error) {
	s, err := c.set(category)
	if err != nil {
		return false, err
	}
	if err := c.LoadGuild(ctx, guildID); err != nil {
		return false, err
	}

	apply, undo := s.Add, s.Remove
	if !enabled {
		apply, undo = s.Remove, s.Add
	}
	if !apply(guildID) {
		return false, nil
	}

	if err := c.store.SetBlock(ctx, guildID, category, enabled); err != nil {
		undo(guildID)
		return false, fmt.Errorf("persist block %s for guild %s: %w", category, guildID, err)
	}
	return true, nil
}

// Unload forgets a guild, typically after the bot left it
func (c *RuleCache) Unload(guildID string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, s := range c.sets {
		s.Remove(guildID)
	}
	c.loaded.Remove(guildID)
}

// Stats returns the number of loaded guilds and of guilds per active category
func (c *RuleCache) Stats() (int, map[models.Category]int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	perCategory := make(map[models.Category]int, len(c.sets))
	for category, s := range c.sets {
		perCategory[category] = s.Len()
	}
	return c.loaded.Len(), perCategory
}
