package moderation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PancyStudios/NoAdsHereGo/pkg/logger"
	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
	"github.com/google/uuid"
)

// IgnoreResolver decides whether an actor is exempt from a category in a guild
type IgnoreResolver struct {
	store   IgnoreStore
	mu      sync.RWMutex
	masters map[string]struct{}
}

// NewIgnoreResolver creates a resolver with no masters
func NewIgnoreResolver(store IgnoreStore) *IgnoreResolver {
	return &IgnoreResolver{
		store:   store,
		masters: make(map[string]struct{}),
	}
}

// LoadMasters merges the configured operator IDs with the persisted ones.
// The configured IDs are kept even when storage fails.
func (r *IgnoreResolver) LoadMasters(ctx context.Context, store MasterStore, configured []string) error {
	ids := append([]string(nil), configured...)

	var loadErr error
	if store != nil {
		masters, err := store.ListMasters(ctx)
		if err != nil {
			loadErr = fmt.Errorf("load masters: %w", err)
		}
		for _, m := range masters {
			ids = append(ids, m.UserID)
		}
	}

	r.SetMasters(ids)
	logger.System(fmt.Sprintf("%d masters cargados", len(r.Masters())), "IgnoreResolver")
	return loadErr
}

// SetMasters replaces the operator list
func (r *IgnoreResolver) SetMasters(ids []string) {
	masters := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			masters[id] = struct{}{}
		}
	}

	r.mu.Lock()
	r.masters = masters
	r.mu.Unlock()
}

// Masters returns the operator IDs
func (r *IgnoreResolver) Masters() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.masters))
	for id := range r.masters {
		ids = append(ids, id)
	}
	return ids
}

// IsMaster reports whether userID is a bot operator
func (r *IgnoreResolver) IsMaster(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.masters[userID]
	return ok
}

// IsExempt checks masters, then user, channel and role ignores scoped to category or "all".
// Any matching rule exempts; the order only decides how early the lookup stops.
func (r *IgnoreResolver) IsExempt(ctx context.Context, guildID string, category models.Category, userID, channelID string, roleIDs []string) (bool, error) {
	if r.IsMaster(userID) {
		return true, nil
	}

	ignores, err := r.store.ListIgnores(ctx, guildID, category)
	if err != nil {
		return false, fmt.Errorf("list ignores for guild %s: %w", guildID, err)
	}
	if len(ignores) == 0 {
		return false, nil
	}

	byType := func(t models.IgnoreType, target string) bool {
		for _, ignore := range ignores {
			if ignore.IgnoreType == t && ignore.TargetID == target && ignore.Covers(category) {
				return true
			}
		}
		return false
	}

	if byType(models.IgnoreTypeUser, userID) {
		return true, nil
	}
	if byType(models.IgnoreTypeChannel, channelID) {
		return true, nil
	}
	for _, roleID := range roleIDs {
		if byType(models.IgnoreTypeRole, roleID) {
			return true, nil
		}
	}
	return false, nil
}

// Allowed reports whether every matched value contains a string allowed for the actor
func (r *IgnoreResolver) Allowed(ctx context.Context, guildID, userID, channelID string, roleIDs []string, values []string) (bool, error) {
	if len(values) == 0 {
		return false, nil
	}

	allows, err := r.store.ListAllowStrings(ctx, guildID)
	if err != nil {
		return false, fmt.Errorf("list allowed strings for guild %s: %w", guildID, err)
	}

	roles := make(map[string]struct{}, len(roleIDs))
	for _, id := range roleIDs {
		roles[id] = struct{}{}
	}

	var applicable []string
	for _, allow := range allows {
		switch allow.IgnoreType {
		case models.IgnoreTypeUser:
			if allow.TargetID != userID {
				continue
			}
		case models.IgnoreTypeChannel:
			if allow.TargetID != channelID {
				continue
			}
		case models.IgnoreTypeRole:
			if _, ok := roles[allow.TargetID]; !ok {
				continue
			}
		default:
			continue
		}
		if s := strings.ToLower(Normalize(allow.AllowedString)); s != "" {
			applicable = append(applicable, s)
		}
	}
	if len(applicable) == 0 {
		return false, nil
	}

	for _, value := range values {
		value = strings.ToLower(value)
		covered := false
		for _, s := range applicable {
			if strings.Contains(value, s) {
				covered = true
				break
			}
		}
		if !covered {
			return false, nil
		}
	}
	return true, nil
}

// AddIgnore creates an ignore. It returns false with the existing record when an
// identical one is already stored.
func (r *IgnoreResolver) AddIgnore(ctx context.Context, guildID string, ignoreType models.IgnoreType, targetID string, category models.Category) (models.Ignore, bool, error) {
	existing, err := r.store.ListIgnores(ctx, guildID, "")
	if err != nil {
		return models.Ignore{}, false, err
	}
	for _, ignore := range existing {
		if ignore.IgnoreType == ignoreType && ignore.TargetID == targetID && ignore.Category == category {
			return ignore, false, nil
		}
	}

	ignore := models.Ignore{
		ID:         uuid.NewString(),
		GuildID:    guildID,
		Category:   category,
		IgnoreType: ignoreType,
		TargetID:   targetID,
	}
	if err := r.store.AddIgnore(ctx, ignore); err != nil {
		return models.Ignore{}, false, fmt.Errorf("add ignore: %w", err)
	}
	return ignore, true, nil
}

// RemoveIgnore deletes an ignore by ID
func (r *IgnoreResolver) RemoveIgnore(ctx context.Context, guildID, id string) (bool, error) {
	return r.store.RemoveIgnore(ctx, guildID, id)
}

// ListIgnores returns every ignore of the guild
func (r *IgnoreResolver) ListIgnores(ctx context.Context, guildID string) ([]models.Ignore, error) {
	return r.store.ListIgnores(ctx, guildID, "")
}

// AddAllowString whitelists value for a user, channel or role
func (r *IgnoreResolver) AddAllowString(ctx context.Context, guildID string, ignoreType models.IgnoreType, targetID, value string) (models.AllowString, bool, error) {
	existing, err := r.store.ListAllowStrings(ctx, guildID)
	if err != nil {
		return models.AllowString{}, false, err
	}
	for _, allow := range existing {
		if allow.IgnoreType == ignoreType && allow.TargetID == targetID && strings.EqualFold(allow.AllowedString, value) {
			return allow, false, nil
		}
	}

	allow := models.AllowString{
		ID:            uuid.NewString(),
		GuildID:       guildID,
		IgnoreType:    ignoreType,
		TargetID:      targetID,
		AllowedString: value,
	}
	if err := r.store.AddAllowString(ctx, allow); err != nil {
		return models.AllowString{}, false, fmt.Errorf("add allowed string: %w", err)
	}
	return allow, true, nil
}

// RemoveAllowString deletes an allowed string by ID
func (r *IgnoreResolver) RemoveAllowString(ctx context.Context, guildID, id string) (bool, error) {
	return r.store.RemoveAllowString(ctx, guildID, id)
}

// ListAllowStrings returns every allowed string of the guild
func (r *IgnoreResolver) ListAllowStrings(ctx context.Context, guildID string) ([]models.AllowString, error) {
	return r.store.ListAllowStrings(ctx, guildID)
}
