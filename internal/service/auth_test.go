package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialsphere/socialsphere-app/internal/cache"
	domainerrors "github.com/socialsphere/socialsphere-app/internal/errors"
)

func TestAuth_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.Services.Auth.Register(ctx, RegisterRequest{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		DisplayName:     "Алиса",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.AvatarPath)
	assert.NotEmpty(t, user.AvatarColor)

	resp, err := env.Services.Auth.Login(ctx, LoginRequest{
		Username: "alice",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)
}

func TestAuth_RegisterRejectsMismatchedPasswords(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Services.Auth.Register(context.Background(), RegisterRequest{
		Username:        "bob",
		Email:           "bob@example.com",
		Password:        "secret123",
		ConfirmPassword: "different",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestAuth_DuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerUser(t, "carol")

	_, err := env.Services.Auth.Register(ctx, RegisterRequest{
		Username:        "carol",
		Email:           "other@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))
}

func TestAuth_LoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerUser(t, "dave")

	_, err := env.Services.Auth.Login(ctx, LoginRequest{
		Username: "dave",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuth_LoginUnknownUserLooksLikeWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Services.Auth.Login(context.Background(), LoginRequest{
		Username: "nobody",
		Password: "whatever",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuth_RestoreSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "erin")

	_, err := env.Services.Auth.Login(ctx, LoginRequest{
		Username: "erin",
		Password: "password1",
		Remember: true,
	})
	require.NoError(t, err)

	restored, err := env.Services.Auth.RestoreSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, userID, restored.ID)
}

func TestAuth_RestoreSessionWithoutLogin(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Services.Auth.RestoreSession(context.Background())
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))
}

func TestAuth_RestoreSessionRejectsGarbageToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.Cache.Set(ctx, cache.KeyAuthToken, "not-a-token", cache.ScopeDurable))

	_, err := env.Services.Auth.RestoreSession(ctx)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrTokenExpired))

	// The stale token is dropped so the next restore fails cleanly.
	_, err = env.Cache.Get(ctx, cache.KeyAuthToken)
	assert.True(t, domainerrors.Is(err, cache.ErrNotFound))
}

func TestAuth_LogoutClearsSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.registerUser(t, "frank")

	_, err := env.Services.Auth.Login(ctx, LoginRequest{
		Username: "frank",
		Password: "password1",
	})
	require.NoError(t, err)

	require.NoError(t, env.Services.Auth.Logout(ctx))

	_, err = env.Services.Auth.RestoreSession(ctx)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))
}

func TestAuth_DemoLoginSeedsOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.Services.Auth.DemoLogin(ctx)
	require.NoError(t, err)
	assert.Equal(t, DemoUsername, resp.User.Username)

	feed, err := env.Services.Posts.LoadFeed(ctx)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 3)
	// Fixtures come back newest first.
	assert.Contains(t, feed.Posts[0].Content, "#технологии")

	// A second demo login must not duplicate the fixtures.
	_, err = env.Services.Auth.DemoLogin(ctx)
	require.NoError(t, err)
	feed, err = env.Services.Posts.LoadFeed(ctx)
	require.NoError(t, err)
	assert.Len(t, feed.Posts, 3)
}
