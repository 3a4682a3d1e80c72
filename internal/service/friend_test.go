package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialsphere/socialsphere-app/internal/domain"
	domainerrors "github.com/socialsphere/socialsphere-app/internal/errors"
)

func TestFriends_RequestAndAccept(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.registerUser(t, "alice")
	bobID := env.registerUser(t, "bob")

	_, err := env.Services.Friends.Request(ctx, aliceID, bobID)
	require.NoError(t, err)

	// Bob sees the pending request and Alice in his incoming list.
	pending, err := env.Services.Friends.PendingRequests(ctx, bobID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, aliceID, pending[0].ID)

	require.NoError(t, env.Services.Friends.Accept(ctx, bobID, aliceID))

	// Both sides now list each other as accepted.
	for _, pair := range [][2]string{{aliceID, bobID}, {bobID, aliceID}} {
		friends, err := env.Services.Friends.ListFriends(ctx, pair[0])
		require.NoError(t, err)
		require.Len(t, friends, 1)
		assert.Equal(t, pair[1], friends[0].User.ID)
		assert.Equal(t, domain.FriendAccepted, friends[0].Status)
	}

	for _, uid := range []string{aliceID, bobID} {
		user, err := env.Services.Users.Get(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, 1, user.FriendsCount)
	}
}

func TestFriends_CannotFriendYourself(t *testing.T) {
	env := newTestEnv(t)
	aliceID := env.registerUser(t, "alice")

	_, err := env.Services.Friends.Request(context.Background(), aliceID, aliceID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestFriends_DuplicateRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.registerUser(t, "alice")
	bobID := env.registerUser(t, "bob")

	_, err := env.Services.Friends.Request(ctx, aliceID, bobID)
	require.NoError(t, err)

	_, err = env.Services.Friends.Request(ctx, aliceID, bobID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))
}

func TestFriends_AcceptWithoutRequest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.registerUser(t, "alice")
	bobID := env.registerUser(t, "bob")

	err := env.Services.Friends.Accept(ctx, bobID, aliceID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestFriends_RequestNotifiesTarget(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.registerUser(t, "alice")
	bobID := env.registerUser(t, "bob")

	_, err := env.Services.Friends.Request(ctx, aliceID, bobID)
	require.NoError(t, err)

	notifications, err := env.Services.Notifications.List(ctx, bobID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, domain.NotificationFriendRequest, notifications[0].Type)
	assert.Contains(t, notifications[0].Message, "alice")
}
