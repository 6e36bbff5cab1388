package database

import (
	"context"
	"sync"

	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
)

type guildKey struct {
	guildID string
	key     string
}

// MemoryStore keeps every record in process memory. It is used by tests and by
// the "memory" storage mode during development.
type MemoryStore struct {
	mu        sync.Mutex
	blocks    map[guildKey]models.Block
	ignores   map[string]models.Ignore
	allows    map[string]models.AllowString
	penalties map[string]map[int]models.Penalty
	violators map[guildKey]int
	masters   []models.Master
}

// NewMemoryStore creates an empty store
func NewMemoryStore(masters ...string) *MemoryStore {
	s := &MemoryStore{
		blocks:    make(map[guildKey]models.Block),
		ignores:   make(map[string]models.Ignore),
		allows:    make(map[string]models.AllowString),
		penalties: make(map[string]map[int]models.Penalty),
		violators: make(map[guildKey]int),
	}
	for _, id := range masters {
		s.masters = append(s.masters, models.Master{UserID: id})
	}
	return s
}

func (s *MemoryStore) GetOrCreateBlock(ctx context.Context, guildID string, category models.Category) (models.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := guildKey{guildID, string(category)}
	block, ok := s.blocks[k]
	if !ok {
		block = models.Block{GuildID: guildID, Category: category}
		s.blocks[k] = block
	}
	return block, nil
}

func (s *MemoryStore) ListBlocks(ctx context.Context, guildID string) ([]models.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blocks := make([]models.Block, 0)
	for _, category := range models.Categories {
		if block, ok := s.blocks[guildKey{guildID, string(category)}]; ok {
			blocks = append(blocks, block)
		}
	}
	return blocks, nil
}

func (s *MemoryStore) SetBlock(ctx context.Context, guildID string, category models.Category, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blocks[guildKey{guildID, string(category)}] = models.Block{GuildID: guildID, Category: category, IsEnabled: enabled}
	return nil
}

func (s *MemoryStore) ListIgnores(ctx context.Context, guildID string, category models.Category) ([]models.Ignore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ignores := make([]models.Ignore, 0)
	for _, ignore := range s.ignores {
		if ignore.GuildID != guildID {
			continue
		}
		if category != "" && !ignore.Covers(category) {
			continue
		}
		ignores = append(ignores, ignore)
	}
	return ignores, nil
}

func (s *MemoryStore) AddIgnore(ctx context.Context, ignore models.Ignore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ignores[ignore.ID] = ignore
	return nil
}

func (s *MemoryStore) RemoveIgnore(ctx context.Context, guildID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ignore, ok := s.ignores[id]
	if !ok || ignore.GuildID != guildID {
		return false, nil
	}
	delete(s.ignores, id)
	return true, nil
}

func (s *MemoryStore) ListAllowStrings(ctx context.Context, guildID string) ([]models.AllowString, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	allows := make([]models.AllowString, 0)
	for _, allow := range s.allows {
		if allow.GuildID == guildID {
			allows = append(allows, allow)
		}
	}
	return allows, nil
}

func (s *MemoryStore) AddAllowString(ctx context.Context, allow models.AllowString) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.allows[allow.ID] = allow
	return nil
}

func (s *MemoryStore) RemoveAllowString(ctx context.Context, guildID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	allow, ok := s.allows[id]
	if !ok || allow.GuildID != guildID {
		return false, nil
	}
	delete(s.allows, id)
	return true, nil
}

func (s *MemoryStore) ListPenalties(ctx context.Context, guildID string) ([]models.Penalty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	penalties := make([]models.Penalty, 0, len(s.penalties[guildID]))
	for _, p := range s.penalties[guildID] {
		penalties = append(penalties, p)
	}
	return penalties, nil
}

// InsertPenalties skips penalties whose ID already exists, like an unordered insert
// against the unique index does.
func (s *MemoryStore) InsertPenalties(ctx context.Context, penalties []models.Penalty) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range penalties {
		byID, ok := s.penalties[p.GuildID]
		if !ok {
			byID = make(map[int]models.Penalty)
			s.penalties[p.GuildID] = byID
		}
		if _, exists := byID[p.PenaltyID]; !exists {
			byID[p.PenaltyID] = p
		}
	}
	return nil
}

func (s *MemoryStore) UpsertPenalty(ctx context.Context, p models.Penalty) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.penalties[p.GuildID]
	if !ok {
		byID = make(map[int]models.Penalty)
		s.penalties[p.GuildID] = byID
	}
	byID[p.PenaltyID] = p
	return nil
}

func (s *MemoryStore) RemovePenalty(ctx context.Context, guildID string, penaltyID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.penalties[guildID][penaltyID]; !ok {
		return false, nil
	}
	delete(s.penalties[guildID], penaltyID)
	return true, nil
}

func (s *MemoryStore) IncrementViolator(ctx context.Context, guildID, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := guildKey{guildID, userID}
	s.violators[k]++
	return s.violators[k], nil
}

func (s *MemoryStore) GetViolator(ctx context.Context, guildID, userID string) (models.Violator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := guildKey{guildID, userID}
	if _, ok := s.violators[k]; !ok {
		s.violators[k] = 0
	}
	return models.Violator{GuildID: guildID, UserID: userID, Violations: s.violators[k]}, nil
}

func (s *MemoryStore) ResetViolator(ctx context.Context, guildID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.violators[guildKey{guildID, userID}] = 0
	return nil
}

func (s *MemoryStore) ListMasters(ctx context.Context) ([]models.Master, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.Master(nil), s.masters...), nil
}

// GetStatus reports the in-memory store as always online
func (s *MemoryStore) GetStatus() (string, bool) {
	return "memory", true
}
