// Package moderation implements the anti-advertising pipeline: content matching,
// the per guild rule cache, exemptions, violation counting and penalty escalation.
package moderation

import (
	"context"
	"fmt"

	"github.com/PancyStudios/NoAdsHereGo/pkg/logger"
	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
)

// Config wires a Service
type Config struct {
	Store      Store
	Platform   Platform
	Events     EventSink
	Masters    []string
	Dispatcher DispatcherOptions
}

// Service owns every moderation component for the lifetime of the process
type Service struct {
	Rules      *RuleCache
	Ignores    *IgnoreResolver
	Violations *ViolationTracker
	Penalties  *PenaltyEscalator
	Engine     *Engine
	Dispatcher *Dispatcher

	store   Store
	masters []string
}

// NewService builds the components. Call Start before submitting messages.
func NewService(cfg Config) *Service {
	rules := NewRuleCache(cfg.Store)
	ignores := NewIgnoreResolver(cfg.Store)
	violations := NewViolationTracker(cfg.Store)
	penalties := NewPenaltyEscalator(cfg.Store, cfg.Platform)

	engine := NewEngine(EngineDeps{
		Matcher:    NewMatcher(),
		Rules:      rules,
		Ignores:    ignores,
		Violations: violations,
		Penalties:  penalties,
		Platform:   cfg.Platform,
		Events:     cfg.Events,
	})

	return &Service{
		Rules:      rules,
		Ignores:    ignores,
		Violations: violations,
		Penalties:  penalties,
		Engine:     engine,
		Dispatcher: NewDispatcher(engine, cfg.Dispatcher),
		store:      cfg.Store,
		masters:    cfg.Masters,
	}
}

// Start populates the rule cache, loads the masters and starts the workers
func (s *Service) Start(ctx context.Context) {
	s.Rules.Populate()
	if err := s.Ignores.LoadMasters(ctx, s.store, s.masters); err != nil {
		logger.Warn(fmt.Sprintf("Masters cargados solo desde la configuración: %v", err), "Moderation")
	}
	s.Dispatcher.Start()
}

// Stop drains the workers and drops the cached rules
func (s *Service) Stop() {
	s.Dispatcher.Stop()
	s.Rules.Clear()
}

// GuildSetup describes what PrepareGuild found
type GuildSetup struct {
	// Seeded is set when default penalties were inserted
	Seeded bool
	// Inactive is set when the guild never configured any block. It is only
	// computed for fresh joins and newly seeded guilds.
	Inactive bool
}

// PrepareGuild loads the guild rules and seeds the default penalties when the
// guild has no penalty at all. A fresh join also restores missing defaults.
func (s *Service) PrepareGuild(ctx context.Context, guildID string, fresh bool) (GuildSetup, error) {
	var setup GuildSetup
	if fresh {
		n, err := s.Penalties.SeedDefaults(ctx, guildID)
		if err != nil {
			return setup, err
		}
		setup.Seeded = n > 0
	} else {
		seeded, err := s.Penalties.SeedIfEmpty(ctx, guildID)
		if err != nil {
			return setup, err
		}
		setup.Seeded = seeded
	}

	if fresh || setup.Seeded {
		blocks, err := s.store.ListBlocks(ctx, guildID)
		if err != nil {
			return setup, err
		}
		setup.Inactive = len(blocks) == 0
	}

	if err := s.Rules.LoadGuild(ctx, guildID); err != nil {
		return setup, err
	}
	return setup, nil
}

// Blocks returns every category of the guild with its state, creating missing records
func (s *Service) Blocks(ctx context.Context, guildID string) ([]models.Block, error) {
	blocks := make([]models.Block, 0, len(models.Categories))
	for _, category := range models.Categories {
		block, err := s.store.GetOrCreateBlock(ctx, guildID, category)
		if err != nil {
			return nil, fmt.Errorf("get block %s for guild %s: %w", category, guildID, err)
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}
