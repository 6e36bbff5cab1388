package moderation

import (
	"context"

	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
)

// BlockStore persists which categories are enforced per guild
type BlockStore interface {
	// GetOrCreateBlock returns the block, creating it disabled when absent
	GetOrCreateBlock(ctx context.Context, guildID string, category models.Category) (models.Block, error)
	ListBlocks(ctx context.Context, guildID string) ([]models.Block, error)
	SetBlock(ctx context.Context, guildID string, category models.Category, enabled bool) error
}

// IgnoreStore persists exemptions and allowed strings
type IgnoreStore interface {
	// ListIgnores returns the ignores scoped to category or to every category.
	// An empty category returns all of the guild's ignores.
	ListIgnores(ctx context.Context, guildID string, category models.Category) ([]models.Ignore, error)
	AddIgnore(ctx context.Context, ignore models.Ignore) error
	RemoveIgnore(ctx context.Context, guildID, id string) (bool, error)

	ListAllowStrings(ctx context.Context, guildID string) ([]models.AllowString, error)
	AddAllowString(ctx context.Context, allow models.AllowString) error
	RemoveAllowString(ctx context.Context, guildID, id string) (bool, error)
}

// PenaltyStore persists the escalation ladder of each guild
type PenaltyStore interface {
	ListPenalties(ctx context.Context, guildID string) ([]models.Penalty, error)
	InsertPenalties(ctx context.Context, penalties []models.Penalty) error
	UpsertPenalty(ctx context.Context, penalty models.Penalty) error
	RemovePenalty(ctx context.Context, guildID string, penaltyID int) (bool, error)
}

// ViolatorStore persists violation counters
type ViolatorStore interface {
	// IncrementViolator atomically adds one violation and returns the new count
	IncrementViolator(ctx context.Context, guildID, userID string) (int, error)
	GetViolator(ctx context.Context, guildID, userID string) (models.Violator, error)
	ResetViolator(ctx context.Context, guildID, userID string) error
}

// MasterStore lists the global bot operators
type MasterStore interface {
	ListMasters(ctx context.Context) ([]models.Master, error)
}

// Store is the full persistence contract used by the moderation service
type Store interface {
	BlockStore
	IgnoreStore
	PenaltyStore
	ViolatorStore
	MasterStore
}

// Platform is the subset of the chat platform the moderation pipeline acts through
type Platform interface {
	CanManageMessages(ctx context.Context, channelID string) (bool, error)
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	// Warn posts reason in the channel, prefixed with a mention of the user
	Warn(ctx context.Context, guildID, channelID, userID, reason string) error
	Kick(ctx context.Context, guildID, userID, reason string) error
	Ban(ctx context.Context, guildID, userID, reason string) error
}

// EventType names a moderation event published to the sink
type EventType string

const (
	EventSuppressed EventType = "suppressed"
	EventPenalty    EventType = "penalty"
)

// Event describes something the pipeline did to a message or a member
type Event struct {
	ID         string               `json:"id"`
	Type       EventType            `json:"type"`
	GuildID    string               `json:"guildId"`
	ChannelID  string               `json:"channelId"`
	UserID     string               `json:"userId"`
	MessageID  string               `json:"messageId"`
	Category   models.Category      `json:"category"`
	Violations int                  `json:"violations"`
	Action     models.PenaltyAction `json:"action,omitempty"`
	Timestamp  int64                `json:"timestamp"`
}

// EventSink receives moderation events. Publishing is best effort.
type EventSink interface {
	Publish(ctx context.Context, event Event) error
}
