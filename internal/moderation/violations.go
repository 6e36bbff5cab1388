package moderation

import (
	"context"
	"fmt"

	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
)

// ViolationTracker counts offenses per member. Counts are incremented atomically by
// the store, so concurrent offenses by the same member are never lost.
type ViolationTracker struct {
	store ViolatorStore
}

// NewViolationTracker creates a tracker over store
func NewViolationTracker(store ViolatorStore) *ViolationTracker {
	return &ViolationTracker{store: store}
}

// AddViolation records one offense and returns the new count
func (t *ViolationTracker) AddViolation(ctx context.Context, guildID, userID string) (int, error) {
	count, err := t.store.IncrementViolator(ctx, guildID, userID)
	if err != nil {
		return 0, fmt.Errorf("add violation for %s in guild %s: %w", userID, guildID, err)
	}
	return count, nil
}

// Count returns the current number of offenses
func (t *ViolationTracker) Count(ctx context.Context, guildID, userID string) (int, error) {
	violator, err := t.store.GetViolator(ctx, guildID, userID)
	if err != nil {
		return 0, fmt.Errorf("get violations for %s in guild %s: %w", userID, guildID, err)
	}
	return violator.Violations, nil
}

// Get returns the violator record, creating an empty one when absent
func (t *ViolationTracker) Get(ctx context.Context, guildID, userID string) (models.Violator, error) {
	return t.store.GetViolator(ctx, guildID, userID)
}

// Reset sets the count back to zero. Only moderators can trigger this.
func (t *ViolationTracker) Reset(ctx context.Context, guildID, userID string) error {
	if err := t.store.ResetViolator(ctx, guildID, userID); err != nil {
		return fmt.Errorf("reset violations for %s in guild %s: %w", userID, guildID, err)
	}
	return nil
}
