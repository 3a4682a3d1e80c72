package domain

import (
	"regexp"
	"slices"

	"github.com/socialsphere/socialsphere-app/internal/util"
)

// MaxPostContentLength caps post content; the composer shows a live
// countdown against this limit.
const MaxPostContentLength = 5000

// Privacy controls who can see a post.
type Privacy string

const (
	// PrivacyPublic makes the post visible in every feed.
	PrivacyPublic Privacy = "public"
	// PrivacyPrivate restricts the post to its author.
	PrivacyPrivate Privacy = "private"
)

// Valid checks if the privacy value is one we accept.
func (p Privacy) Valid() bool {
	return p == PrivacyPublic || p == PrivacyPrivate
}

// hashtagRe matches #tag tokens in post content. Letters, digits and
// underscores after the #, any script.
var hashtagRe = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

// Post represents a feed entry.
type Post struct {
	Record
	AuthorID   string   `json:"author_id"`
	AuthorName string   `json:"author_name"` // Denormalized for fast feed rendering
	Content    string   `json:"content"`
	Tags       []string `json:"tags,omitempty"`  // Normalized slugs, deduplicated
	Likes      []string `json:"likes,omitempty"` // User IDs, no duplicates
	Privacy    Privacy  `json:"privacy"`
	Pinned     bool     `json:"pinned,omitempty"`
}

// ExtractTags scans content for #tag tokens and returns normalized,
// deduplicated slugs in order of first appearance.
func ExtractTags(content string) []string {
	matches := hashtagRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		slug := util.NormalizeTagSlug(m[1])
		if slug == "" {
			continue
		}
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		tags = append(tags, slug)
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

// LikedBy reports whether the given user has liked the post.
func (p *Post) LikedBy(userID string) bool {
	return slices.Contains(p.Likes, userID)
}

// ToggleLike adds or removes the user from the like set and returns
// whether the post is liked afterwards. The like set is the source of
// truth; counts are always derived from it.
func (p *Post) ToggleLike(userID string) bool {
	if i := slices.Index(p.Likes, userID); i >= 0 {
		p.Likes = slices.Delete(p.Likes, i, i+1)
		p.Touch()
		return false
	}
	p.Likes = append(p.Likes, userID)
	p.Touch()
	return true
}

// LikeCount returns the number of distinct users who liked the post.
func (p *Post) LikeCount() int {
	return len(p.Likes)
}

// CharactersRemaining returns how many characters (runes) the composer
// may still accept for the given draft content.
func CharactersRemaining(content string) int {
	return MaxPostContentLength - len([]rune(content))
}
