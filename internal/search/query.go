package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

const (
	// MinQueryLength is the shortest query the dropdown searches for.
	// Anything shorter yields an empty result without touching the index.
	MinQueryLength = 2

	// CategoryCap is the maximum number of hits per result category.
	CategoryCap = 5
)

// Hit is a single search result.
type Hit struct {
	ID          string  `json:"id"`
	Score       float64 `json:"score"`
	Username    string  `json:"username,omitempty"`
	DisplayName string  `json:"display_name,omitempty"`
	Content     string  `json:"content,omitempty"`
	Tag         string  `json:"tag,omitempty"`
}

// Result groups hits by category for the search dropdown.
type Result struct {
	Query string `json:"query"`
	Users []Hit  `json:"users"`
	Posts []Hit  `json:"posts"`
	Tags  []Hit  `json:"tags"`
}

// Empty reports whether no category matched.
func (r *Result) Empty() bool {
	return len(r.Users) == 0 && len(r.Posts) == 0 && len(r.Tags) == 0
}

// Search runs the dropdown search: one query per category, each capped
// to CategoryCap hits. Queries below MinQueryLength return an empty
// result without querying the index.
func (s *Index) Search(ctx context.Context, q string) (*Result, error) {
	q = strings.TrimSpace(q)
	result := &Result{Query: q}
	if len([]rune(q)) < MinQueryLength {
		return result, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var err error
	if result.Users, err = s.searchCategory(ctx, DocTypeUser, userQuery(q)); err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	if result.Posts, err = s.searchCategory(ctx, DocTypePost, postQuery(q)); err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	if result.Tags, err = s.searchCategory(ctx, DocTypeTag, tagQuery(q)); err != nil {
		return nil, fmt.Errorf("search tags: %w", err)
	}

	return result, nil
}

// userQuery matches usernames by prefix and display names by match or
// light fuzziness, all case-insensitively.
func userQuery(q string) query.Query {
	lower := strings.ToLower(q)

	usernamePrefix := bleve.NewPrefixQuery(lower)
	usernamePrefix.SetField("username")

	displayPrefix := bleve.NewPrefixQuery(lower)
	displayPrefix.SetField("display_name")

	displayMatch := bleve.NewMatchQuery(q)
	displayMatch.SetField("display_name")
	displayMatch.SetFuzziness(1)

	return bleve.NewDisjunctionQuery(usernamePrefix, displayPrefix, displayMatch)
}

// postQuery matches post content with stemming plus a raw prefix for
// partially typed words.
func postQuery(q string) query.Query {
	contentMatch := bleve.NewMatchQuery(q)
	contentMatch.SetField("content")

	contentPrefix := bleve.NewPrefixQuery(strings.ToLower(q))
	contentPrefix.SetField("content")

	return bleve.NewDisjunctionQuery(contentMatch, contentPrefix)
}

// tagQuery matches tag slugs by prefix. The query is normalized the
// same way tags are at post creation, so "#Open_Source" finds
// "open-source".
func tagQuery(q string) query.Query {
	slug := strings.ToLower(strings.TrimPrefix(q, "#"))
	slug = strings.ReplaceAll(slug, "_", "-")

	tagPrefix := bleve.NewPrefixQuery(slug)
	tagPrefix.SetField("tag")
	return tagPrefix
}

// searchCategory runs one capped, type-filtered search.
// Caller must hold s.mu.
func (s *Index) searchCategory(ctx context.Context, docType DocType, match query.Query) ([]Hit, error) {
	typeFilter := bleve.NewTermQuery(string(docType))
	typeFilter.SetField("type")

	searchQuery := bleve.NewConjunctionQuery(typeFilter, match)
	request := bleve.NewSearchRequestOptions(searchQuery, CategoryCap, 0, false)
	request.Fields = []string{"username", "display_name", "content", "tag"}

	searchResult, err := s.index.SearchInContext(ctx, request)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		h := Hit{ID: hit.ID, Score: hit.Score}
		if v, ok := hit.Fields["username"].(string); ok {
			h.Username = v
		}
		if v, ok := hit.Fields["display_name"].(string); ok {
			h.DisplayName = v
		}
		if v, ok := hit.Fields["content"].(string); ok {
			h.Content = v
		}
		if v, ok := hit.Fields["tag"].(string); ok {
			h.Tag = v
		}
		hits = append(hits, h)
	}
	return hits, nil
}
