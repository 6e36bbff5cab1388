package moderation

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/PancyStudios/NoAdsHereGo/pkg/logger"
	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
)

// ErrInvalidThreshold is returned when a penalty threshold is not positive
var ErrInvalidThreshold = errors.New("threshold must be greater than zero")

// SelectPenalty picks the penalty whose threshold equals count exactly.
// Among several, the highest threshold wins and ties go to the highest penaltyId.
// Counts that skip a threshold never trigger it.
func SelectPenalty(penalties []models.Penalty, count int) (models.Penalty, bool) {
	var (
		selected models.Penalty
		found    bool
	)
	for _, p := range penalties {
		if p.Threshold != count {
			continue
		}
		if !found || p.Threshold > selected.Threshold ||
			(p.Threshold == selected.Threshold && p.PenaltyID > selected.PenaltyID) {
			selected, found = p, true
		}
	}
	return selected, found
}

// PenaltyEscalator maps violation counts to penalties and applies them
type PenaltyEscalator struct {
	store    PenaltyStore
	platform Platform
}

// NewPenaltyEscalator creates an escalator
func NewPenaltyEscalator(store PenaltyStore, platform Platform) *PenaltyEscalator {
	return &PenaltyEscalator{store: store, platform: platform}
}

// Evaluate returns the penalty triggered by reaching count, if any
func (e *PenaltyEscalator) Evaluate(ctx context.Context, guildID, userID string, count int) (models.Penalty, bool, error) {
	penalties, err := e.store.ListPenalties(ctx, guildID)
	if err != nil {
		return models.Penalty{}, false, fmt.Errorf("list penalties for guild %s: %w", guildID, err)
	}
	p, ok := SelectPenalty(penalties, count)
	return p, ok, nil
}

// Execute applies p to the author of msg. The none action does nothing.
func (e *PenaltyEscalator) Execute(ctx context.Context, msg Message, p models.Penalty, category models.Category) error {
	reason := fmt.Sprintf("NoAdsHere: %d infracciones (%s)", p.Threshold, category.Label())

	var err error
	switch p.Action {
	case models.PenaltyNone:
		return nil
	case models.PenaltyWarn:
		err = e.platform.Warn(ctx, msg.GuildID, msg.ChannelID, msg.AuthorID,
			fmt.Sprintf("no se permiten %s en este servidor. Infracciones: %d", category.Label(), p.Threshold))
	case models.PenaltyKick:
		err = e.platform.Kick(ctx, msg.GuildID, msg.AuthorID, reason)
	case models.PenaltyBan:
		err = e.platform.Ban(ctx, msg.GuildID, msg.AuthorID, reason)
	default:
		return fmt.Errorf("unknown penalty action %q", p.Action)
	}
	if err != nil {
		return fmt.Errorf("%s %s in guild %s: %w", p.Action, msg.AuthorID, msg.GuildID, err)
	}
	return nil
}

// SeedDefaults stores the default ladder entries the guild does not have yet.
// It returns how many were inserted.
func (e *PenaltyEscalator) SeedDefaults(ctx context.Context, guildID string) (int, error) {
	existing, err := e.store.ListPenalties(ctx, guildID)
	if err != nil {
		return 0, fmt.Errorf("list penalties for guild %s: %w", guildID, err)
	}

	have := make(map[int]struct{}, len(existing))
	for _, p := range existing {
		have[p.PenaltyID] = struct{}{}
	}

	var missing []models.Penalty
	for _, p := range models.DefaultPenalties(guildID) {
		if _, ok := have[p.PenaltyID]; !ok {
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}

	if err := e.store.InsertPenalties(ctx, missing); err != nil {
		return 0, fmt.Errorf("seed penalties for guild %s: %w", guildID, err)
	}
	logger.Info(fmt.Sprintf("%d penalizaciones por defecto creadas para el servidor %s", len(missing), guildID), "Penalties")
	return len(missing), nil
}

// SeedIfEmpty stores the default ladder only when the guild has no penalty at all,
// so penalties removed by a moderator stay removed.
func (e *PenaltyEscalator) SeedIfEmpty(ctx context.Context, guildID string) (bool, error) {
	existing, err := e.store.ListPenalties(ctx, guildID)
	if err != nil {
		return false, fmt.Errorf("list penalties for guild %s: %w", guildID, err)
	}
	if len(existing) > 0 {
		return false, nil
	}
	n, err := e.SeedDefaults(ctx, guildID)
	return n > 0, err
}

// List returns the guild's penalties ordered by threshold
func (e *PenaltyEscalator) List(ctx context.Context, guildID string) ([]models.Penalty, error) {
	penalties, err := e.store.ListPenalties(ctx, guildID)
	if err != nil {
		return nil, err
	}
	sort.Slice(penalties, func(i, j int) bool {
		if penalties[i].Threshold != penalties[j].Threshold {
			return penalties[i].Threshold < penalties[j].Threshold
		}
		return penalties[i].PenaltyID < penalties[j].PenaltyID
	})
	return penalties, nil
}

// Set creates or replaces the penalty with the given ID
func (e *PenaltyEscalator) Set(ctx context.Context, p models.Penalty) error {
	if p.Threshold <= 0 {
		return ErrInvalidThreshold
	}
	if _, ok := models.ParsePenaltyAction(string(p.Action)); !ok {
		return fmt.Errorf("unknown penalty action %q", p.Action)
	}
	return e.store.UpsertPenalty(ctx, p)
}

// Remove deletes the penalty with the given ID
func (e *PenaltyEscalator) Remove(ctx context.Context, guildID string, penaltyID int) (bool, error) {
	return e.store.RemovePenalty(ctx, guildID, penaltyID)
}
