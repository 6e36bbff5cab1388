package models

// PenaltyAction is the consequence applied when a violation threshold is reached
type PenaltyAction string

const (
	PenaltyNone PenaltyAction = "none"
	PenaltyWarn PenaltyAction = "warn"
	PenaltyKick PenaltyAction = "kick"
	PenaltyBan  PenaltyAction = "ban"
)

// ParsePenaltyAction validates a user supplied action
func ParsePenaltyAction(s string) (PenaltyAction, bool) {
	switch a := PenaltyAction(s); a {
	case PenaltyNone, PenaltyWarn, PenaltyKick, PenaltyBan:
		return a, true
	}
	return "", false
}

// Penalty maps an exact violation count to an action
type Penalty struct {
	GuildID   string        `bson:"guildId" json:"guildId"`
	PenaltyID int           `bson:"penaltyId" json:"penaltyId"`
	Action    PenaltyAction `bson:"action" json:"action"`
	Threshold int           `bson:"threshold" json:"threshold"`
}

// DefaultPenalties returns the ladder seeded when the bot joins a guild
func DefaultPenalties(guildID string) []Penalty {
	return []Penalty{
		{GuildID: guildID, PenaltyID: 1, Action: PenaltyNone, Threshold: 1},
		{GuildID: guildID, PenaltyID: 2, Action: PenaltyWarn, Threshold: 3},
		{GuildID: guildID, PenaltyID: 3, Action: PenaltyKick, Threshold: 5},
		{GuildID: guildID, PenaltyID: 4, Action: PenaltyBan, Threshold: 6},
	}
}

// Violator is the per guild, per user offense counter
type Violator struct {
	GuildID    string `bson:"guildId" json:"guildId"`
	UserID     string `bson:"userId" json:"userId"`
	Violations int    `bson:"violations" json:"violations"`
}
