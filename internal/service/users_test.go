package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialsphere/socialsphere-app/internal/domain"
	domainerrors "github.com/socialsphere/socialsphere-app/internal/errors"
)

func avatarPNG(t *testing.T) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestUsers_UpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "alice")

	user, err := env.Services.Users.UpdateProfile(ctx, UpdateProfileRequest{
		UserID:      userID,
		DisplayName: "Алиса",
		Bio:         "Просто Алиса",
	})
	require.NoError(t, err)
	assert.Equal(t, "Алиса", user.DisplayName)
	assert.Equal(t, "Просто Алиса", user.Bio)

	// The new display name is searchable right away.
	results, err := env.Services.Search.Query(ctx, "Алиса")
	require.NoError(t, err)
	require.Len(t, results.Users, 1)
	assert.Equal(t, userID, results.Users[0].ID)
}

func TestUsers_AvatarUploadAndRemove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := env.registerUser(t, "alice")

	user, err := env.Services.Users.UpdateProfile(ctx, UpdateProfileRequest{
		UserID: userID,
		Avatar: avatarPNG(t),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.AvatarPath)
	assert.NotEmpty(t, user.AvatarHash)

	user, err = env.Services.Users.RemoveAvatar(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, user.AvatarPath)
	assert.Empty(t, user.AvatarHash)
	// The color fallback is untouched.
	assert.NotEmpty(t, user.AvatarColor)
}

func TestUsers_PrivateProfileHiddenFromOthers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.registerUser(t, "alice")
	bobID := env.registerUser(t, "bob")

	_, err := env.Services.Users.UpdateProfile(ctx, UpdateProfileRequest{
		UserID:  aliceID,
		Privacy: &domain.PrivacySettings{ProfilePublic: false, ShowLastActivity: false},
	})
	require.NoError(t, err)

	_, err = env.Services.Users.GetProfile(ctx, aliceID, bobID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))

	// The owner still sees their own profile.
	profile, err := env.Services.Users.GetProfile(ctx, aliceID, aliceID)
	require.NoError(t, err)
	assert.Equal(t, aliceID, profile.User.ID)
}

func TestUsers_ActiveUsersWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	aliceID := env.registerUser(t, "alice")
	bobID := env.registerUser(t, "bob")

	// Push Bob's activity outside the window.
	bob, err := env.Services.Users.Get(ctx, bobID)
	require.NoError(t, err)
	bob.LastActivity = time.Now().Add(-domain.ActiveWindow - time.Minute)
	require.NoError(t, env.Store.Users.Update(ctx, bobID, bob))

	require.NoError(t, env.Services.Users.PingActivity(ctx, aliceID))

	active, err := env.Services.Users.ActiveUsers(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, aliceID, active[0].ID)
}

func TestUsers_ActiveUsersCapped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"user1", "user2", "user3", "user4", "user5", "user6", "user7"} {
		userID := env.registerUser(t, name)
		require.NoError(t, env.Services.Users.PingActivity(ctx, userID))
	}

	active, err := env.Services.Users.ActiveUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, active, activeUsersCap)
}
