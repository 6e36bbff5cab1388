package models

// IgnoreType is the kind of target an exemption applies to
type IgnoreType string

const (
	IgnoreTypeUser    IgnoreType = "user"
	IgnoreTypeChannel IgnoreType = "channel"
	IgnoreTypeRole    IgnoreType = "role"
)

// ParseIgnoreType validates a user supplied ignore type
func ParseIgnoreType(s string) (IgnoreType, bool) {
	switch t := IgnoreType(s); t {
	case IgnoreTypeUser, IgnoreTypeChannel, IgnoreTypeRole:
		return t, true
	}
	return "", false
}

// Mention renders the target the way Discord displays it
func (t IgnoreType) Mention(id string) string {
	switch t {
	case IgnoreTypeUser:
		return "<@" + id + ">"
	case IgnoreTypeChannel:
		return "<#" + id + ">"
	case IgnoreTypeRole:
		return "<@&" + id + ">"
	default:
		return id
	}
}

// Ignore exempts a user, channel or role from one category (or all of them)
type Ignore struct {
	ID         string     `bson:"_id" json:"id"`
	GuildID    string     `bson:"guildId" json:"guildId"`
	Category   Category   `bson:"category" json:"category"`
	IgnoreType IgnoreType `bson:"ignoreType" json:"ignoreType"`
	TargetID   string     `bson:"targetId" json:"targetId"`
}

// Covers reports whether the ignore applies to the given category
func (i Ignore) Covers(category Category) bool {
	return i.Category == CategoryAll || i.Category == category
}

// AllowString whitelists a literal string for a user, channel or role.
// A match containing the string is not treated as a violation.
type AllowString struct {
	ID            string     `bson:"_id" json:"id"`
	GuildID       string     `bson:"guildId" json:"guildId"`
	IgnoreType    IgnoreType `bson:"ignoreType" json:"ignoreType"`
	TargetID      string     `bson:"targetId" json:"targetId"`
	AllowedString string     `bson:"allowedString" json:"allowedString"`
}

// Master is a bot operator exempt from moderation in every guild
type Master struct {
	UserID string `bson:"_id" json:"userId"`
}
