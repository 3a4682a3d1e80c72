package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/socialsphere/socialsphere-app/internal/avatar"
	"github.com/socialsphere/socialsphere-app/internal/domain"
	domainerrors "github.com/socialsphere/socialsphere-app/internal/errors"
	"github.com/socialsphere/socialsphere-app/internal/search"
	"github.com/socialsphere/socialsphere-app/internal/store"
)

// activeUsersCap is how many users the active-users panel shows.
const activeUsersCap = 5

// maxBioLength bounds the profile bio.
const maxBioLength = 500

// UserService handles profiles, presence and avatars.
type UserService struct {
	store       *store.Store
	avatars     *avatar.Store
	searchIndex *search.Index
	logger      *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(st *store.Store, avatars *avatar.Store, searchIndex *search.Index, logger *slog.Logger) *UserService {
	return &UserService{
		store:       st,
		avatars:     avatars,
		searchIndex: searchIndex,
		logger:      logger,
	}
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// Profile holds a user with their posts for the profile page.
type Profile struct {
	User  *domain.User
	Posts []*domain.Post
}

// GetProfile loads a profile with the user's posts, newest first.
// Private profiles are only visible to their owner.
func (s *UserService) GetProfile(ctx context.Context, userID, viewerID string) (*Profile, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Privacy.ProfilePublic && user.ID != viewerID {
		return nil, domainerrors.Unauthorized("this profile is private")
	}

	posts, err := s.store.PostsByAuthor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile posts: %w", err)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	return &Profile{User: user, Posts: posts}, nil
}

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	UserID      string `validate:"required"`
	DisplayName string `validate:"max=64"`
	Bio         string

	// Avatar, when non-nil, replaces the profile picture.
	Avatar io.Reader

	Privacy *domain.PrivacySettings
}

// UpdateProfile applies profile edits and re-indexes the user.
func (s *UserService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*domain.User, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(req.Bio) > maxBioLength {
		return nil, domainerrors.Validationf("bio exceeds %d characters", maxBioLength)
	}

	user, err := s.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	user.DisplayName = req.DisplayName
	user.Bio = req.Bio
	if req.Privacy != nil {
		user.Privacy = *req.Privacy
	}

	if req.Avatar != nil {
		path, hash, err := s.avatars.Save(user.ID, req.Avatar)
		if err != nil {
			return nil, domainerrors.Validation("avatar image could not be read").WithCause(err)
		}
		user.AvatarPath = path
		user.AvatarHash = hash
	}

	user.Touch()
	if err := s.store.Users.Update(ctx, user.ID, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if err := s.searchIndex.IndexDocument(search.UserToDocument(user)); err != nil {
		s.logger.Warn("failed to re-index user", "user_id", user.ID, "error", err)
	}

	s.logger.Info("Profile updated", "user_id", user.ID)
	return user, nil
}

// RemoveAvatar deletes the profile picture, falling back to the color
// avatar.
func (s *UserService) RemoveAvatar(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.avatars.Remove(userID); err != nil {
		return nil, fmt.Errorf("remove avatar file: %w", err)
	}
	user.AvatarPath = ""
	user.AvatarHash = ""
	user.Touch()

	if err := s.store.Users.Update(ctx, userID, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// PingActivity refreshes the user's last-activity timestamp so they
// count as online.
func (s *UserService) PingActivity(ctx context.Context, userID string) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	user.PingActivity()
	if err := s.store.Users.Update(ctx, userID, user); err != nil {
		return fmt.Errorf("update last activity: %w", err)
	}
	return nil
}

// ActiveUsers returns up to activeUsersCap users active within
// domain.ActiveWindow, most recently active first.
func (s *UserService) ActiveUsers(ctx context.Context) ([]*domain.User, error) {
	now := time.Now()

	var active []*domain.User
	for user, err := range s.store.Users.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		if user.ActiveAt(now) {
			active = append(active, user)
		}
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].LastActivity.After(active[j].LastActivity)
	})
	if len(active) > activeUsersCap {
		active = active[:activeUsersCap]
	}
	return active, nil
}
