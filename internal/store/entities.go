package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/socialsphere/socialsphere-app/internal/domain"
)

// sortableTime formats a timestamp with fixed-width zero-padded
// nanoseconds so that lexicographic ordering of index keys matches
// chronological ordering. The result is always 30 characters.
func sortableTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05") + fmt.Sprintf(".%09d", t.Nanosecond()) + "Z"
}

// normalizeUsername lowercases usernames so lookups and uniqueness
// checks are case-insensitive.
func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// normalizeEmail lowercases emails for case-insensitive uniqueness.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// initUsers initializes the Users entity on the store.
// Usernames and emails are unique, case-insensitively.
func (s *Store) initUsers() {
	s.Users = NewEntity[domain.User](s, "user:").
		WithUniqueIndexTransform("username",
			func(u *domain.User) []string {
				return []string{normalizeUsername(u.Username)}
			},
			normalizeUsername,
		).
		WithUniqueIndexTransform("email",
			func(u *domain.User) []string {
				return []string{normalizeEmail(u.Email)}
			},
			normalizeEmail,
		)
}

// initPosts initializes the Posts entity on the store.
// Indexed by author, creation time (for feed ordering), and tag.
func (s *Store) initPosts() {
	s.Posts = NewEntity[domain.Post](s, "post:").
		WithLookupIndex("author", func(p *domain.Post) []string {
			return []string{p.AuthorID}
		}).
		WithLookupIndex("created_at", func(p *domain.Post) []string {
			return []string{sortableTime(p.CreatedAt)}
		}).
		WithLookupIndex("tag", func(p *domain.Post) []string {
			return p.Tags
		})
}

// initComments initializes the Comments entity on the store.
func (s *Store) initComments() {
	s.Comments = NewEntity[domain.Comment](s, "comment:").
		WithLookupIndex("post", func(c *domain.Comment) []string {
			return []string{c.PostID}
		})
}

// initNotifications initializes the Notifications entity on the store.
// The user_unread index only holds unread notifications, so badge
// counts don't scan a user's full history.
func (s *Store) initNotifications() {
	s.Notifications = NewEntity[domain.Notification](s, "notif:").
		WithLookupIndex("user", func(n *domain.Notification) []string {
			return []string{n.UserID}
		}).
		WithLookupIndex("user_unread", func(n *domain.Notification) []string {
			if n.Read {
				return nil
			}
			return []string{n.UserID}
		})
}

// initFriends initializes the Friends entity on the store.
// Indexed from both sides of the relationship.
func (s *Store) initFriends() {
	s.Friends = NewEntity[domain.Friend](s, "friend:").
		WithLookupIndex("user", func(f *domain.Friend) []string {
			return []string{f.UserID}
		}).
		WithLookupIndex("friend", func(f *domain.Friend) []string {
			return []string{f.FriendID}
		})
}

// initMessages initializes the Messages entity on the store.
func (s *Store) initMessages() {
	s.Messages = NewEntity[domain.Message](s, "msg:").
		WithLookupIndex("conversation", func(m *domain.Message) []string {
			return []string{m.ConversationID}
		})
}

// Convenience queries used by the service layer.

// GetUserByUsername looks up a user by username, case-insensitively.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.Users.GetByIndex(ctx, "username", username)
}

// GetUserByEmail looks up a user by email, case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.Users.GetByIndex(ctx, "email", email)
}

// ListPostsNewestFirst returns all posts ordered by creation time,
// newest first.
func (s *Store) ListPostsNewestFirst(ctx context.Context) ([]*domain.Post, error) {
	posts := make([]*domain.Post, 0, 32)
	for post, err := range s.Posts.ListByIndexOrdered(ctx, "created_at", true) {
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// PostsByAuthor returns all posts by the given author.
func (s *Store) PostsByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error) {
	posts := make([]*domain.Post, 0, 16)
	for post, err := range s.Posts.ListByIndex(ctx, "author", authorID) {
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// PostsByTag returns all posts carrying the given tag.
func (s *Store) PostsByTag(ctx context.Context, tag string) ([]*domain.Post, error) {
	posts := make([]*domain.Post, 0, 16)
	for post, err := range s.Posts.ListByIndex(ctx, "tag", tag) {
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// CommentsForPost returns all comments on the given post.
func (s *Store) CommentsForPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	comments := make([]*domain.Comment, 0, 8)
	for comment, err := range s.Comments.ListByIndex(ctx, "post", postID) {
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

// NotificationsForUser returns all notifications for the given user.
func (s *Store) NotificationsForUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	notifs := make([]*domain.Notification, 0, 16)
	for n, err := range s.Notifications.ListByIndex(ctx, "user", userID) {
		if err != nil {
			return nil, err
		}
		notifs = append(notifs, n)
	}
	return notifs, nil
}

// UnreadNotificationCount counts unread notifications for the user.
func (s *Store) UnreadNotificationCount(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, err := range s.Notifications.ListByIndex(ctx, "user_unread", userID) {
		if err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

// FriendsOf returns all friend relationships where the user is the
// initiating side.
func (s *Store) FriendsOf(ctx context.Context, userID string) ([]*domain.Friend, error) {
	friends := make([]*domain.Friend, 0, 8)
	for f, err := range s.Friends.ListByIndex(ctx, "user", userID) {
		if err != nil {
			return nil, err
		}
		friends = append(friends, f)
	}
	return friends, nil
}

// MessagesInConversation returns all messages in the given conversation.
func (s *Store) MessagesInConversation(ctx context.Context, conversationID string) ([]*domain.Message, error) {
	msgs := make([]*domain.Message, 0, 16)
	for m, err := range s.Messages.ListByIndex(ctx, "conversation", conversationID) {
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}
