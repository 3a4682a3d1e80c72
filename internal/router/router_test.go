package router

import (
	"context"
	"crypto/rand"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialsphere/socialsphere-app/internal/auth"
	"github.com/socialsphere/socialsphere-app/internal/avatar"
	"github.com/socialsphere/socialsphere-app/internal/cache"
	"github.com/socialsphere/socialsphere-app/internal/desktop"
	"github.com/socialsphere/socialsphere-app/internal/domain"
	"github.com/socialsphere/socialsphere-app/internal/ratelimit"
	"github.com/socialsphere/socialsphere-app/internal/search"
	"github.com/socialsphere/socialsphere-app/internal/service"
	"github.com/socialsphere/socialsphere-app/internal/state"
	"github.com/socialsphere/socialsphere-app/internal/store"
	"github.com/socialsphere/socialsphere-app/internal/view"
)

func newTestRouter(t *testing.T) (*Router, *state.App, *view.Binder) {
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

	limiter := ratelimit.New(100, 100)
	t.Cleanup(limiter.Stop)

	settings := service.NewSettingsService(c, logger)
	notifications := service.NewNotificationService(st, settings, desktop.NoopNotifier{}, logger)
	services := &service.Services{
		Auth:          service.NewAuthService(st, c, tokens, idx, limiter, logger),
		Posts:         service.NewPostService(st, idx, notifications, logger),
		Notifications: notifications,
		Friends:       service.NewFriendService(st, notifications, logger),
		Messages:      service.NewMessageService(st, notifications, logger),
		Settings:      settings,
		Activity:      service.NewActivityService(c, logger),
		Search:        service.NewSearchService(st, idx, logger),
		Users:         service.NewUserService(st, avatars, idx, logger),
	}

	app := state.NewApp(logger)
	binder := view.NewBinder()
	renderer, err := view.NewRenderer(binder, "ru", logger)
	require.NoError(t, err)

	return New(services, app, renderer, logger), app, binder
}

func regionHTML(t *testing.T, binder *view.Binder, region state.Region) string {
	t.Helper()
	buf, err := binder.Region(region)
	require.NoError(t, err)
	return buf.HTML()
}

func TestRouter_AppStartedWithoutSession(t *testing.T) {
	r, app, _ := newTestRouter(t)
	ctx := context.Background()

	r.handle(ctx, AppStarted{})

	app.View(func(s *state.State) {
		assert.False(t, s.Authenticated)
		assert.Nil(t, s.CurrentUser)
		assert.Empty(t, s.Posts)
	})
}

func TestRouter_DemoLoginLoadsEverything(t *testing.T) {
	r, app, _ := newTestRouter(t)
	ctx := context.Background()

	r.handle(ctx, DemoLoginRequested{})

	app.View(func(s *state.State) {
		require.True(t, s.Authenticated)
		assert.Equal(t, service.DemoUsername, s.CurrentUser.Username)
		assert.Len(t, s.Posts, 3)
		// The login itself lands in the activity trail.
		require.NotEmpty(t, s.Activities)
		assert.Equal(t, domain.ActivityLogin, s.Activities[0].Type)
	})
}

func TestRouter_PostSubmittedUpdatesFeed(t *testing.T) {
	r, app, binder := newTestRouter(t)
	ctx := context.Background()

	r.handle(ctx, DemoLoginRequested{})
	r.handle(ctx, PostSubmitted{Content: "новый пост из теста #тест"})

	app.View(func(s *state.State) {
		require.Len(t, s.Posts, 4)
		assert.Equal(t, "новый пост из теста #тест", s.Posts[0].Content)
	})

	r.renderRegion(state.RegionFeed)
	html := regionHTML(t, binder, state.RegionFeed)
	assert.Contains(t, html, "новый пост из теста")
}

func TestRouter_PostSubmittedRequiresAuth(t *testing.T) {
	r, app, _ := newTestRouter(t)
	ctx := context.Background()

	r.handle(ctx, AppStarted{})
	r.handle(ctx, PostSubmitted{Content: "аноним"})

	app.View(func(s *state.State) {
		assert.Empty(t, s.Posts)
	})
}

func TestRouter_LikeTogglePatchesState(t *testing.T) {
	r, app, _ := newTestRouter(t)
	ctx := context.Background()

	r.handle(ctx, DemoLoginRequested{})

	var postID, userID string
	app.View(func(s *state.State) {
		postID = s.Posts[0].ID
		userID = s.CurrentUser.ID
	})

	r.handle(ctx, LikeToggled{PostID: postID})
	app.View(func(s *state.State) {
		assert.True(t, s.PostByID(postID).LikedBy(userID))
	})

	r.handle(ctx, LikeToggled{PostID: postID})
	app.View(func(s *state.State) {
		assert.False(t, s.PostByID(postID).LikedBy(userID))
	})
}

func TestRouter_SearchFlow(t *testing.T) {
	r, app, binder := newTestRouter(t)
	ctx := context.Background()

	r.handle(ctx, DemoLoginRequested{})
	r.handle(ctx, SearchChanged{Query: "demo"})

	app.View(func(s *state.State) {
		require.NotNil(t, s.SearchResults)
		assert.NotEmpty(t, s.SearchResults.Users)
	})

	r.renderRegion(state.RegionSearch)
	assert.Contains(t, regionHTML(t, binder, state.RegionSearch), "Демо")

	r.handle(ctx, SearchCleared{})
	app.View(func(s *state.State) {
		assert.Nil(t, s.SearchResults)
		assert.Empty(t, s.SearchQuery)
	})
}

func TestRouter_ThemeToggleCyclesAndPersists(t *testing.T) {
	r, app, _ := newTestRouter(t)
	ctx := context.Background()

	r.handle(ctx, AppStarted{})
	r.handle(ctx, ThemeToggled{})

	app.View(func(s *state.State) {
		assert.Equal(t, domain.ThemeDark, s.Theme)
	})

	// A restart picks the saved theme back up.
	r.handle(ctx, AppStarted{})
	app.View(func(s *state.State) {
		assert.Equal(t, domain.ThemeDark, s.Theme)
	})
}

func TestRouter_LogoutResetsState(t *testing.T) {
	r, app, _ := newTestRouter(t)
	ctx := context.Background()

	r.handle(ctx, DemoLoginRequested{})
	r.handle(ctx, LogoutRequested{})

	app.View(func(s *state.State) {
		assert.False(t, s.Authenticated)
		assert.Nil(t, s.CurrentUser)
		assert.Nil(t, s.Notifications)
		assert.Equal(t, state.PageFeed, s.CurrentPage)
		// The feed stays visible to signed-out users.
		assert.Len(t, s.Posts, 3)
	})
}

func TestRouter_PageNavigation(t *testing.T) {
	r, app, binder := newTestRouter(t)
	ctx := context.Background()

	r.handle(ctx, DemoLoginRequested{})
	r.handle(ctx, PageNavigated{Page: state.PageProfile})

	app.View(func(s *state.State) {
		assert.Equal(t, state.PageProfile, s.CurrentPage)
	})

	r.renderRegion(state.RegionPage)
	assert.Contains(t, regionHTML(t, binder, state.RegionPage), "Демо Пользователь")
}

func TestRouter_DraftAutosaveAndRestore(t *testing.T) {
	r, app, _ := newTestRouter(t)
	ctx := context.Background()

	r.handle(ctx, DraftChanged{Content: "недописанный пост"})
	require.NoError(t, r.AutosaveDraft(ctx))

	// A restart restores the draft from the cache.
	r.handle(ctx, AppStarted{})
	app.View(func(s *state.State) {
		assert.Equal(t, "недописанный пост", s.ComposerDraft)
	})

	// Publishing clears it.
	r.handle(ctx, DemoLoginRequested{})
	r.handle(ctx, PostSubmitted{Content: "опубликовано"})
	app.View(func(s *state.State) {
		assert.Empty(t, s.ComposerDraft)
	})
	draft, err := r.services.Settings.LoadDraft(ctx)
	require.NoError(t, err)
	assert.Empty(t, draft)
}

func TestRouter_RunDispatchesAndRenders(t *testing.T) {
	r, _, binder := newTestRouter(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Run(ctx)
	}()

	r.Dispatch(DemoLoginRequested{})

	require.Eventually(t, func() bool {
		buf, err := binder.Region(state.RegionFeed)
		if err != nil {
			return false
		}
		return buf.RenderCount() > 0
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("router did not stop on cancel")
	}
}

func TestRouter_OverlayVisibility(t *testing.T) {
	r, app, _ := newTestRouter(t)
	ctx := context.Background()

	r.handle(ctx, ModalOpened{Modal: "login"})
	app.View(func(s *state.State) {
		assert.Equal(t, "login", s.ActiveModal)
	})

	r.handle(ctx, ModalClosed{})
	app.View(func(s *state.State) {
		assert.Empty(t, s.ActiveModal)
	})

	r.handle(ctx, NotificationsToggled{})
	app.View(func(s *state.State) {
		assert.True(t, s.NotificationsOpen)
	})

	r.handle(ctx, NotificationsToggled{})
	app.View(func(s *state.State) {
		assert.False(t, s.NotificationsOpen)
	})
}
