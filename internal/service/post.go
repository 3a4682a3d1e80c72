package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/socialsphere/socialsphere-app/internal/domain"
	domainerrors "github.com/socialsphere/socialsphere-app/internal/errors"
	"github.com/socialsphere/socialsphere-app/internal/id"
	"github.com/socialsphere/socialsphere-app/internal/search"
	"github.com/socialsphere/socialsphere-app/internal/store"
)

// PostService handles the post lifecycle: creation, likes, comments.
type PostService struct {
	store         *store.Store
	searchIndex   *search.Index
	notifications *NotificationService
	logger        *slog.Logger
}

// NewPostService creates a new post service.
func NewPostService(st *store.Store, searchIndex *search.Index, notifications *NotificationService, logger *slog.Logger) *PostService {
	return &PostService{
		store:         st,
		searchIndex:   searchIndex,
		notifications: notifications,
		logger:        logger,
	}
}

// CreatePostRequest contains the data for a new post.
type CreatePostRequest struct {
	AuthorID string         `json:"author_id" validate:"required"`
	Content  string         `json:"content" validate:"required"`
	Privacy  domain.Privacy `json:"privacy"`
}

// CreatePost validates and stores a new post, updates the author's
// post count, and indexes the post for search.
func (s *PostService) CreatePost(ctx context.Context, req CreatePostRequest) (*domain.Post, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, domainerrors.Validation("post content cannot be empty")
	}
	if utf8.RuneCountInString(req.Content) > domain.MaxPostContentLength {
		return nil, domainerrors.Validationf("post content exceeds %d characters", domain.MaxPostContentLength)
	}
	if req.Privacy == "" {
		req.Privacy = domain.PrivacyPublic
	}
	if !req.Privacy.Valid() {
		return nil, domainerrors.Validationf("unknown privacy setting %q", req.Privacy)
	}

	author, err := s.store.Users.Get(ctx, req.AuthorID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("author not found")
		}
		return nil, fmt.Errorf("load author: %w", err)
	}

	postID, err := id.Generate("post")
	if err != nil {
		return nil, fmt.Errorf("generate post ID: %w", err)
	}

	post := &domain.Post{
		AuthorID:   author.ID,
		AuthorName: author.Name(),
		Content:    req.Content,
		Tags:       domain.ExtractTags(req.Content),
		Privacy:    req.Privacy,
	}
	post.ID = postID
	post.InitTimestamps()

	if err := s.store.Posts.Create(ctx, postID, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	author.PostsCount++
	author.Touch()
	if err := s.store.Users.Update(ctx, author.ID, author); err != nil {
		return nil, fmt.Errorf("update author post count: %w", err)
	}

	docs := []*search.Document{search.PostToDocument(post)}
	for _, tag := range post.Tags {
		docs = append(docs, search.TagToDocument(tag))
	}
	if err := s.searchIndex.IndexDocuments(docs); err != nil {
		s.logger.Warn("failed to index post", "post_id", postID, "error", err)
	}

	s.logger.Info("Post created", "post_id", postID, "author_id", author.ID, "tags", len(post.Tags))
	return post, nil
}

// LikeResult reports the outcome of a like toggle.
type LikeResult struct {
	Liked bool // Whether the post is liked after the toggle
	Count int  // Like count after the toggle
}

// ToggleLike flips the user's like on a post and persists the result.
// The stored like set is the source of truth; the count is always
// recomputed from it. Liking someone else's post notifies them.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID string) (*LikeResult, error) {
	post, err := s.store.Posts.Get(ctx, postID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("post not found")
		}
		return nil, fmt.Errorf("load post: %w", err)
	}

	liked := post.ToggleLike(userID)
	if err := s.store.Posts.Update(ctx, postID, post); err != nil {
		return nil, fmt.Errorf("persist like: %w", err)
	}

	if liked && post.AuthorID != userID {
		user, err := s.store.Users.Get(ctx, userID)
		if err == nil {
			s.notifications.NotifyLike(ctx, post.AuthorID, user.Name())
		}
	}

	return &LikeResult{Liked: liked, Count: post.LikeCount()}, nil
}

// AddCommentRequest contains the data for a new comment.
type AddCommentRequest struct {
	PostID   string `json:"post_id" validate:"required"`
	UserID   string `json:"user_id" validate:"required"`
	ParentID string `json:"parent_id"` // Optional, for threaded replies
	Content  string `json:"content" validate:"required"`
}

// AddComment stores a comment on a post and notifies the post author.
func (s *PostService) AddComment(ctx context.Context, req AddCommentRequest) (*domain.Comment, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, domainerrors.Validation("comment cannot be empty")
	}

	post, err := s.store.Posts.Get(ctx, req.PostID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("post not found")
		}
		return nil, fmt.Errorf("load post: %w", err)
	}

	user, err := s.store.Users.Get(ctx, req.UserID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	commentID, err := id.Generate("comment")
	if err != nil {
		return nil, fmt.Errorf("generate comment ID: %w", err)
	}

	comment := &domain.Comment{
		PostID:   post.ID,
		UserID:   user.ID,
		UserName: user.Name(),
		ParentID: req.ParentID,
		Content:  req.Content,
	}
	comment.ID = commentID
	comment.InitTimestamps()

	if err := s.store.Comments.Create(ctx, commentID, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	if post.AuthorID != user.ID {
		s.notifications.NotifyComment(ctx, post.AuthorID, user.Name())
	}

	return comment, nil
}

// Feed holds the loaded feed with per-post comment counts.
type Feed struct {
	Posts         []*domain.Post
	CommentCounts map[string]int
}

// LoadFeed returns all posts newest first with their comment counts.
func (s *PostService) LoadFeed(ctx context.Context) (*Feed, error) {
	posts, err := s.store.ListPostsNewestFirst(ctx)
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}

	counts := make(map[string]int, len(posts))
	for _, post := range posts {
		comments, err := s.store.CommentsForPost(ctx, post.ID)
		if err != nil {
			return nil, fmt.Errorf("count comments for %s: %w", post.ID, err)
		}
		counts[post.ID] = len(comments)
	}

	return &Feed{Posts: posts, CommentCounts: counts}, nil
}

// CommentsForPost returns the comments on a post, oldest first.
func (s *PostService) CommentsForPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	comments, err := s.store.CommentsForPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}

	// The post index iterates in record-ID order, not time order.
	// Oldest first also guarantees replies come after their parents.
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

// DeletePost removes a post. Only the author may delete their post.
func (s *PostService) DeletePost(ctx context.Context, postID, userID string) error {
	post, err := s.store.Posts.Get(ctx, postID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("post not found")
		}
		return fmt.Errorf("load post: %w", err)
	}
	if post.AuthorID != userID {
		return domainerrors.Unauthorized("only the author can delete a post")
	}

	if err := s.store.Posts.Delete(ctx, postID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	if author, err := s.store.Users.Get(ctx, post.AuthorID); err == nil && author.PostsCount > 0 {
		author.PostsCount--
		author.Touch()
		if err := s.store.Users.Update(ctx, author.ID, author); err != nil {
			s.logger.Warn("failed to decrement post count", "user_id", author.ID, "error", err)
		}
	}

	if err := s.searchIndex.DeleteDocument(postID); err != nil {
		s.logger.Warn("failed to remove post from index", "post_id", postID, "error", err)
	}

	s.logger.Info("Post deleted", "post_id", postID)
	return nil
}
