package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialsphere/socialsphere-app/internal/domain"
)

// setupTestCache creates a cache backed by a temp file.
func setupTestCache(t *testing.T) *Cache {
	t.Helper()

	c, err := Open(filepath.Join(t.TempDir(), "cache.db"), nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, c.Close())
	})

	return c
}

func TestCache_SetAndGet(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, KeyTheme, "dark", ScopeDurable))

	value, err := c.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "dark", value)
}

func TestCache_GetMissing(t *testing.T) {
	c := setupTestCache(t)

	_, err := c.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCache_GetDefault(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	value, err := c.GetDefault(ctx, KeyLanguage, "ru")
	require.NoError(t, err)
	assert.Equal(t, "ru", value)

	require.NoError(t, c.Set(ctx, KeyLanguage, "en", ScopeDurable))
	value, err = c.GetDefault(ctx, KeyLanguage, "ru")
	require.NoError(t, err)
	assert.Equal(t, "en", value)
}

func TestCache_SetReplacesScope(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	// A remember-me login later downgraded to session scope must be
	// swept by ClearSession.
	require.NoError(t, c.Set(ctx, KeyAuthToken, "tok-1", ScopeDurable))
	require.NoError(t, c.Set(ctx, KeyAuthToken, "tok-2", ScopeSession))

	require.NoError(t, c.ClearSession(ctx))

	_, err := c.Get(ctx, KeyAuthToken)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCache_ClearSessionKeepsDurable(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, KeyTheme, "neon", ScopeDurable))
	require.NoError(t, c.Set(ctx, KeyAuthToken, "tok", ScopeSession))
	require.NoError(t, c.Set(ctx, KeyCurrentUser, "user-1", ScopeSession))

	require.NoError(t, c.ClearSession(ctx))

	value, err := c.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "neon", value)

	_, err = c.Get(ctx, KeyAuthToken)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Get(ctx, KeyCurrentUser)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCache_Remove(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, KeyTheme, "glass", ScopeDurable))
	require.NoError(t, c.Remove(ctx, KeyTheme))
	require.NoError(t, c.Remove(ctx, KeyTheme)) // Idempotent

	_, err := c.Get(ctx, KeyTheme)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCache_DraftRoundTrip(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	saved := time.Date(2025, 6, 1, 12, 0, 0, 123456789, time.UTC)
	draft := &domain.Draft{ID: "composer", Content: "work in progress", LastSaved: saved}
	require.NoError(t, c.SaveDraft(ctx, draft))

	got, err := c.GetDraft(ctx, "composer")
	require.NoError(t, err)
	assert.Equal(t, "work in progress", got.Content)
	assert.True(t, got.LastSaved.Equal(saved))

	// Autosave overwrites in place.
	draft.Content = "more progress"
	draft.LastSaved = saved.Add(time.Minute)
	require.NoError(t, c.SaveDraft(ctx, draft))

	got, err = c.GetDraft(ctx, "composer")
	require.NoError(t, err)
	assert.Equal(t, "more progress", got.Content)

	require.NoError(t, c.DeleteDraft(ctx, "composer"))
	_, err = c.GetDraft(ctx, "composer")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCache_ActivityOrdering(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := range 3 {
		a := &domain.Activity{
			ID:        fmt.Sprintf("act-%d", i),
			UserID:    "user-1",
			UserName:  "alice",
			Type:      domain.ActivityPostCreated,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, c.AppendActivity(ctx, a))
	}

	activities, err := c.RecentActivities(ctx, 10)
	require.NoError(t, err)
	require.Len(t, activities, 3)
	assert.Equal(t, "act-2", activities[0].ID)
	assert.Equal(t, "act-0", activities[2].ID)
}

func TestCache_ActivityLogIsCapped(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	total := domain.MaxActivityEntries + 10
	for i := range total {
		a := &domain.Activity{
			ID:        fmt.Sprintf("act-%03d", i),
			UserID:    "user-1",
			UserName:  "alice",
			Type:      domain.ActivityLogin,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, c.AppendActivity(ctx, a))
	}

	activities, err := c.RecentActivities(ctx, 0)
	require.NoError(t, err)
	require.Len(t, activities, domain.MaxActivityEntries)

	// Newest entry survives, oldest ten are gone.
	assert.Equal(t, fmt.Sprintf("act-%03d", total-1), activities[0].ID)
	assert.Equal(t, fmt.Sprintf("act-%03d", 10), activities[len(activities)-1].ID)
}
