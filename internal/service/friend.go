package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/socialsphere/socialsphere-app/internal/domain"
	domainerrors "github.com/socialsphere/socialsphere-app/internal/errors"
	"github.com/socialsphere/socialsphere-app/internal/id"
	"github.com/socialsphere/socialsphere-app/internal/store"
)

// FriendService manages friendship edges. A friendship is stored as a
// pair of directed edges; a pending request is the requester's edge
// only, and acceptance creates the reverse edge.
type FriendService struct {
	store         *store.Store
	notifications *NotificationService
	logger        *slog.Logger
}

// NewFriendService creates a new friend service.
func NewFriendService(st *store.Store, notifications *NotificationService, logger *slog.Logger) *FriendService {
	return &FriendService{
		store:         st,
		notifications: notifications,
		logger:        logger,
	}
}

// FriendEntry pairs a friend's profile with the edge status.
type FriendEntry struct {
	User   *domain.User
	Status domain.FriendStatus
}

// Request creates a pending friend request from userID to friendID and
// notifies the target.
func (s *FriendService) Request(ctx context.Context, userID, friendID string) (*domain.Friend, error) {
	if userID == friendID {
		return nil, domainerrors.Validation("cannot friend yourself")
	}

	target, err := s.store.Users.Get(ctx, friendID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("load target user: %w", err)
	}

	existing, err := s.edge(ctx, userID, friendID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domainerrors.AlreadyExists("friend request already exists")
	}

	edge, err := s.createEdge(ctx, userID, friendID, domain.FriendPending)
	if err != nil {
		return nil, err
	}

	if requester, err := s.store.Users.Get(ctx, userID); err == nil {
		s.notifications.NotifyFriendRequest(ctx, target.ID, requester.Name())
	}

	s.logger.Info("Friend request sent", "from", userID, "to", friendID)
	return edge, nil
}

// Accept confirms the pending request from requesterID to userID.
// Both edges become accepted and both friend counts go up.
func (s *FriendService) Accept(ctx context.Context, userID, requesterID string) error {
	edge, err := s.edge(ctx, requesterID, userID)
	if err != nil {
		return err
	}
	if edge == nil {
		return domainerrors.NotFound("no pending request from this user")
	}
	if edge.Status != domain.FriendPending {
		return domainerrors.Conflictf("request is already %s", edge.Status)
	}

	edge.Status = domain.FriendAccepted
	edge.Touch()
	if err := s.store.Friends.Update(ctx, edge.ID, edge); err != nil {
		return fmt.Errorf("accept request: %w", err)
	}

	if _, err := s.createEdge(ctx, userID, requesterID, domain.FriendAccepted); err != nil {
		return err
	}

	for _, uid := range []string{userID, requesterID} {
		user, err := s.store.Users.Get(ctx, uid)
		if err != nil {
			continue
		}
		user.FriendsCount++
		user.Touch()
		if err := s.store.Users.Update(ctx, uid, user); err != nil {
			s.logger.Warn("failed to bump friend count", "user_id", uid, "error", err)
		}
	}

	s.logger.Info("Friend request accepted", "user_id", userID, "requester_id", requesterID)
	return nil
}

// ListFriends returns the user's outgoing edges hydrated with the
// friend profiles, accepted friendships first.
func (s *FriendService) ListFriends(ctx context.Context, userID string) ([]*FriendEntry, error) {
	edges, err := s.store.FriendsOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load friend edges: %w", err)
	}

	accepted := make([]*FriendEntry, 0, len(edges))
	var rest []*FriendEntry
	for _, edge := range edges {
		user, err := s.store.Users.Get(ctx, edge.FriendID)
		if err != nil {
			// The friend account was deleted; skip the dangling edge.
			continue
		}
		entry := &FriendEntry{User: user, Status: edge.Status}
		if edge.Status == domain.FriendAccepted {
			accepted = append(accepted, entry)
		} else {
			rest = append(rest, entry)
		}
	}
	return append(accepted, rest...), nil
}

// PendingRequests returns users with a pending request addressed to
// userID.
func (s *FriendService) PendingRequests(ctx context.Context, userID string) ([]*domain.User, error) {
	var requesters []*domain.User
	for edge, err := range s.store.Friends.ListByIndex(ctx, "friend", userID) {
		if err != nil {
			return nil, fmt.Errorf("load incoming edges: %w", err)
		}
		if edge.Status != domain.FriendPending {
			continue
		}
		user, err := s.store.Users.Get(ctx, edge.UserID)
		if err != nil {
			continue
		}
		requesters = append(requesters, user)
	}
	return requesters, nil
}

// edge returns the directed edge from userID to friendID, or nil.
func (s *FriendService) edge(ctx context.Context, userID, friendID string) (*domain.Friend, error) {
	edges, err := s.store.FriendsOf(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load friend edges: %w", err)
	}
	for _, edge := range edges {
		if edge.FriendID == friendID {
			return edge, nil
		}
	}
	return nil, nil
}

func (s *FriendService) createEdge(ctx context.Context, userID, friendID string, status domain.FriendStatus) (*domain.Friend, error) {
	edgeID, err := id.Generate("friend")
	if err != nil {
		return nil, fmt.Errorf("generate edge ID: %w", err)
	}

	edge := &domain.Friend{
		UserID:   userID,
		FriendID: friendID,
		Status:   status,
	}
	edge.ID = edgeID
	edge.InitTimestamps()

	if err := s.store.Friends.Create(ctx, edgeID, edge); err != nil {
		return nil, fmt.Errorf("create friend edge: %w", err)
	}
	return edge, nil
}
