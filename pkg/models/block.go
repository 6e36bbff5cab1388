// Package models contains the persisted record shapes used by the moderation pipeline.
package models

// Category identifies a class of disallowed content
type Category string

const (
	CategoryInvite       Category = "invite"
	CategoryTwitchStream Category = "twitch_stream"
	CategoryTwitchVideo  Category = "twitch_video"
	CategoryTwitchClip   Category = "twitch_clip"
	CategoryYoutube      Category = "youtube"

	// CategoryAll is only valid as the scope of an Ignore
	CategoryAll Category = "all"
)

// Categories lists every blockable category in evaluation order
var Categories = []Category{
	CategoryInvite,
	CategoryTwitchStream,
	CategoryTwitchVideo,
	CategoryTwitchClip,
	CategoryYoutube,
}

// ParseCategory converts a stored or user supplied identifier into a Category.
// CategoryAll is accepted only when allowAll is true.
func ParseCategory(s string, allowAll bool) (Category, bool) {
	c := Category(s)
	if c == CategoryAll {
		return c, allowAll
	}
	for _, known := range Categories {
		if known == c {
			return c, true
		}
	}
	return "", false
}

// Label returns the human readable name of the category
func (c Category) Label() string {
	switch c {
	case CategoryInvite:
		return "invitaciones de Discord"
	case CategoryTwitchStream:
		return "streams de Twitch"
	case CategoryTwitchVideo:
		return "videos de Twitch"
	case CategoryTwitchClip:
		return "clips de Twitch"
	case CategoryYoutube:
		return "enlaces de YouTube"
	case CategoryAll:
		return "todas las categorías"
	default:
		return string(c)
	}
}

// Block stores whether a category is enforced in a guild.
// There is exactly one Block per (guild, category).
type Block struct {
	GuildID   string   `bson:"guildId" json:"guildId"`
	Category  Category `bson:"category" json:"category"`
	IsEnabled bool     `bson:"isEnabled" json:"isEnabled"`
}
