package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialsphere/socialsphere-app/internal/domain"
)

// setupTestStore creates a store backed by a temp directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	return s
}

func newTestUser(id, username, email string) *domain.User {
	u := &domain.User{
		Username:    username,
		Email:       email,
		DisplayName: username,
	}
	u.ID = id
	u.InitTimestamps()
	return u
}

func newTestPost(id, authorID, content string, createdAt time.Time) *domain.Post {
	p := &domain.Post{
		AuthorID: authorID,
		Content:  content,
		Tags:     domain.ExtractTags(content),
		Privacy:  domain.PrivacyPublic,
	}
	p.ID = id
	p.CreatedAt = createdAt
	p.UpdatedAt = createdAt
	return p
}

func TestStore_CreateAndGetUser(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user := newTestUser("user-1", "alice", "alice@example.com")
	require.NoError(t, s.Users.Create(ctx, user.ID, user))

	got, err := s.Users.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestStore_GetMissingUser(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Users.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UsernameUniqueCaseInsensitive(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := newTestUser("user-1", "Alice", "alice@example.com")
	require.NoError(t, s.Users.Create(ctx, first.ID, first))

	dup := newTestUser("user-2", "ALICE", "other@example.com")
	err := s.Users.Create(ctx, dup.ID, dup)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestStore_EmailUnique(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first := newTestUser("user-1", "alice", "Alice@Example.com")
	require.NoError(t, s.Users.Create(ctx, first.ID, first))

	dup := newTestUser("user-2", "bob", "alice@example.com")
	err := s.Users.Create(ctx, dup.ID, dup)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestStore_GetUserByUsernameIgnoresCase(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user := newTestUser("user-1", "Alice", "alice@example.com")
	require.NoError(t, s.Users.Create(ctx, user.ID, user))

	got, err := s.GetUserByUsername(ctx, "aLiCe")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)
}

func TestStore_UpdateReindexesUsername(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user := newTestUser("user-1", "alice", "alice@example.com")
	require.NoError(t, s.Users.Create(ctx, user.ID, user))

	user.Username = "alicia"
	require.NoError(t, s.Users.Update(ctx, user.ID, user))

	// Old index entry must be gone, new one present.
	_, err := s.GetUserByUsername(ctx, "alice")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.GetUserByUsername(ctx, "alicia")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)

	// The freed username is available again.
	other := newTestUser("user-2", "alice", "other@example.com")
	assert.NoError(t, s.Users.Create(ctx, other.ID, other))
}

func TestStore_UpdateMissingUser(t *testing.T) {
	s := setupTestStore(t)

	user := newTestUser("ghost", "ghost", "ghost@example.com")
	err := s.Users.Update(context.Background(), user.ID, user)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	user := newTestUser("user-1", "alice", "alice@example.com")
	require.NoError(t, s.Users.Create(ctx, user.ID, user))

	require.NoError(t, s.Users.Delete(ctx, "user-1"))
	require.NoError(t, s.Users.Delete(ctx, "user-1"))

	_, err := s.Users.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Index entries are cleaned up with the record.
	_, err = s.GetUserByUsername(ctx, "alice")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ListPostsNewestFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"post-a", "post-b", "post-c"} {
		p := newTestPost(id, "user-1", "post "+id, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.Posts.Create(ctx, p.ID, p))
	}

	posts, err := s.ListPostsNewestFirst(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "post-c", posts[0].ID)
	assert.Equal(t, "post-b", posts[1].ID)
	assert.Equal(t, "post-a", posts[2].ID)
}

func TestStore_PostsByTag(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	now := time.Now()
	tagged := newTestPost("post-1", "user-1", "Learning #golang and #testing today", now)
	plain := newTestPost("post-2", "user-1", "no tags here", now.Add(time.Second))
	require.NoError(t, s.Posts.Create(ctx, tagged.ID, tagged))
	require.NoError(t, s.Posts.Create(ctx, plain.ID, plain))

	posts, err := s.PostsByTag(ctx, "golang")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "post-1", posts[0].ID)

	posts, err = s.PostsByTag(ctx, "rust")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestStore_PostsByAuthor(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, s.Posts.Create(ctx, "post-1", newTestPost("post-1", "user-1", "one", now)))
	require.NoError(t, s.Posts.Create(ctx, "post-2", newTestPost("post-2", "user-2", "two", now.Add(time.Second))))
	require.NoError(t, s.Posts.Create(ctx, "post-3", newTestPost("post-3", "user-1", "three", now.Add(2*time.Second))))

	posts, err := s.PostsByAuthor(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestStore_UnreadNotificationCount(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mk := func(id string, read bool) *domain.Notification {
		n := &domain.Notification{
			UserID:  "user-1",
			Type:    domain.NotificationLike,
			Message: "someone liked your post",
			Read:    read,
		}
		n.ID = id
		n.InitTimestamps()
		return n
	}

	require.NoError(t, s.Notifications.Create(ctx, "n-1", mk("n-1", false)))
	require.NoError(t, s.Notifications.Create(ctx, "n-2", mk("n-2", false)))
	require.NoError(t, s.Notifications.Create(ctx, "n-3", mk("n-3", true)))

	count, err := s.UnreadNotificationCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Marking read drops the notification out of the unread index.
	n, err := s.Notifications.Get(ctx, "n-1")
	require.NoError(t, err)
	n.Read = true
	require.NoError(t, s.Notifications.Update(ctx, "n-1", n))

	count, err = s.UnreadNotificationCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_SeededMarker(t *testing.T) {
	s := setupTestStore(t)

	seeded, err := s.Seeded()
	require.NoError(t, err)
	assert.False(t, seeded)

	require.NoError(t, s.MarkSeeded())

	seeded, err = s.Seeded()
	require.NoError(t, err)
	assert.True(t, seeded)
}

func TestStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := New(dir, nil)
	require.NoError(t, err)

	user := newTestUser("user-1", "alice", "alice@example.com")
	require.NoError(t, s.Users.Create(ctx, user.ID, user))
	require.NoError(t, s.Close())

	s, err = New(dir, nil)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Users.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}
