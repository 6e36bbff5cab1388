package moderation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
	"golang.org/x/text/unicode/norm"
)

// Match is one category found in a message together with the substrings that matched it
type Match struct {
	Category models.Category
	Values   []string
}

type categoryPattern struct {
	category models.Category
	re       *regexp.Regexp
	// accept filters raw submatches; nil accepts everything
	accept   func(text string, loc []int) bool
}

// Matcher classifies message text into advertising categories.
// It holds only compiled patterns and is safe for concurrent use.
type Matcher struct {
	patterns []categoryPattern
}

var (
	invitePattern  = regexp.MustCompile(`(?i)discord(?:(?:\.|.?dot.?)gg|app(?:\.|.?dot.?)com/invite)/([\w]{10,16}|[a-zA-Z1-9]{4,8})`)
	streamPattern  = regexp.MustCompile(`(?i)(clips\.)?twitch\.tv/(#)?([a-zA-Z0-9]\w{2,24})(/)?`)
	videoPattern   = regexp.MustCompile(`(?i)twitch\.tv/videos/(#)?([0-9]{2,24})`)
	clipPattern    = regexp.MustCompile(`(?i)clips\.twitch\.tv/(#)?([a-zA-Z0-9]\w{4,50})`)
	youtubePattern = regexp.MustCompile(`(?i)youtu(?:\.be|be\.com)/(?:.*v(?:/|=)|(?:.*/)?)([\w-]+)`)
)

// NewMatcher returns a Matcher covering every category in models.Categories
func NewMatcher() *Matcher {
	return &Matcher{
		patterns: []categoryPattern{
			{category: models.CategoryInvite, re: invitePattern},
			{category: models.CategoryTwitchStream, re: streamPattern, accept: acceptStream},
			{category: models.CategoryTwitchVideo, re: videoPattern},
			{category: models.CategoryTwitchClip, re: clipPattern},
			{category: models.CategoryYoutube, re: youtubePattern},
		},
	}
}

// acceptStream rejects clip hosts and the videos/ path, which belong to other categories
func acceptStream(text string, loc []int) bool {
	if loc[2] >= 0 {
		return false
	}
	name := text[loc[6]:loc[7]]
	return !(strings.EqualFold(name, "videos") && loc[8] >= 0)
}

// Normalize folds compatibility characters and strips whitespace, backslashes and
// every rune outside printable ASCII, defeating zero-width and look-alike obfuscation.
func Normalize(text string) string {
	folded := norm.NFKC.String(text)
	return strings.Map(func(r rune) rune {
		if r == '\\' || unicode.IsSpace(r) || r < 0x20 || r >= 0x7F {
			return -1
		}
		return r
	}, folded)
}

// Classify returns the categories found in text in evaluation order.
// Empty or garbage input yields an empty result.
func (m *Matcher) Classify(text string) []Match {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}

	var matches []Match
	for _, p := range m.patterns {
		var values []string
		for _, loc := range p.re.FindAllStringSubmatchIndex(normalized, -1) {
			if p.accept != nil && !p.accept(normalized, loc) {
				continue
			}
			values = append(values, normalized[loc[0]:loc[1]])
		}
		if len(values) > 0 {
			matches = append(matches, Match{Category: p.category, Values: values})
		}
	}
	return matches
}

// Contains reports whether text matches category
func (m *Matcher) Contains(text string, category models.Category) bool {
	for _, match := range m.Classify(text) {
		if match.Category == category {
			return true
		}
	}
	return false
}
