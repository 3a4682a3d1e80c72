package service

import (
	"context"
	"crypto/rand"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/socialsphere/socialsphere-app/internal/auth"
	"github.com/socialsphere/socialsphere-app/internal/avatar"
	"github.com/socialsphere/socialsphere-app/internal/cache"
	"github.com/socialsphere/socialsphere-app/internal/desktop"
	"github.com/socialsphere/socialsphere-app/internal/ratelimit"
	"github.com/socialsphere/socialsphere-app/internal/search"
	"github.com/socialsphere/socialsphere-app/internal/store"
)

// testEnv wires all services against temp-dir backing stores.
type testEnv struct {
	Store    *store.Store
	Cache    *cache.Cache
	Index    *search.Index
	Services *Services
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	st, err := store.New(dir+"/records", logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	c, err := cache.Open(dir+"/cache.db", logger)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	idx, err := search.NewIndex(search.Options{DataPath: dir, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	key := make([]byte, 32)
	_, err = rand.Read(key)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	avatars, err := avatar.NewStore(dir)
	require.NoError(t, err)

	limiter := ratelimit.New(100, 100) // generous so tests don't throttle
	t.Cleanup(limiter.Stop)

	settings := NewSettingsService(c, logger)
	notifications := NewNotificationService(st, settings, desktop.NoopNotifier{}, logger)

	services := &Services{
		Auth:          NewAuthService(st, c, tokens, idx, limiter, logger),
		Posts:         NewPostService(st, idx, notifications, logger),
		Notifications: notifications,
		Friends:       NewFriendService(st, notifications, logger),
		Messages:      NewMessageService(st, notifications, logger),
		Settings:      settings,
		Activity:      NewActivityService(c, logger),
		Search:        NewSearchService(st, idx, logger),
		Users:         NewUserService(st, avatars, idx, logger),
	}

	return &testEnv{Store: st, Cache: c, Index: idx, Services: services}
}

// registerUser is a shorthand for creating an account in tests.
func (e *testEnv) registerUser(t *testing.T, username string) string {
	t.Helper()
	user, err := e.Services.Auth.Register(context.Background(), RegisterRequest{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "password1",
		ConfirmPassword: "password1",
	})
	require.NoError(t, err)
	return user.ID
}
