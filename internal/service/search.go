package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainerrors "github.com/socialsphere/socialsphere-app/internal/errors"
	"github.com/socialsphere/socialsphere-app/internal/search"
	"github.com/socialsphere/socialsphere-app/internal/state"
	"github.com/socialsphere/socialsphere-app/internal/store"
)

// SearchService runs dropdown searches and hydrates index hits back
// into full records for rendering.
type SearchService struct {
	store       *store.Store
	searchIndex *search.Index
	logger      *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(st *store.Store, searchIndex *search.Index, logger *slog.Logger) *SearchService {
	return &SearchService{
		store:       st,
		searchIndex: searchIndex,
		logger:      logger,
	}
}

// Query searches all categories and hydrates the hits from the store.
// Hits whose records were deleted since indexing are dropped.
func (s *SearchService) Query(ctx context.Context, q string) (*state.SearchResults, error) {
	result, err := s.searchIndex.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	results := &state.SearchResults{}
	for _, hit := range result.Users {
		user, err := s.store.Users.Get(ctx, hit.ID)
		if err != nil {
			if domainerrors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("hydrate user hit: %w", err)
		}
		results.Users = append(results.Users, user)
	}
	for _, hit := range result.Posts {
		post, err := s.store.Posts.Get(ctx, hit.ID)
		if err != nil {
			if domainerrors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("hydrate post hit: %w", err)
		}
		results.Posts = append(results.Posts, post)
	}
	for _, hit := range result.Tags {
		if hit.Tag != "" {
			results.Tags = append(results.Tags, hit.Tag)
		}
	}

	return results, nil
}

// Rebuild drops and re-indexes everything from the record store. Used
// when the index mapping version changes or the index is corrupted.
func (s *SearchService) Rebuild(ctx context.Context) error {
	var docs []*search.Document
	tags := make(map[string]struct{})

	for user, err := range s.store.Users.List(ctx) {
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		docs = append(docs, search.UserToDocument(user))
	}
	for post, err := range s.store.Posts.List(ctx) {
		if err != nil {
			return fmt.Errorf("list posts: %w", err)
		}
		docs = append(docs, search.PostToDocument(post))
		for _, tag := range post.Tags {
			tags[strings.ToLower(tag)] = struct{}{}
		}
	}
	for tag := range tags {
		docs = append(docs, search.TagToDocument(tag))
	}

	if err := s.searchIndex.Rebuild(docs); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	s.logger.Info("Search index rebuilt", "documents", len(docs))
	return nil
}
