package domain

import "time"

// ActivityType represents the kind of action recorded in the activity log.
type ActivityType string

const (
	// ActivityLogin is recorded on successful login.
	ActivityLogin ActivityType = "login"

	// ActivityLogout is recorded on logout.
	ActivityLogout ActivityType = "logout"

	// ActivityPostCreated is recorded when a user publishes a post.
	ActivityPostCreated ActivityType = "post_created"

	// ActivityPostLiked is recorded when a user likes a post.
	// Unliking is not recorded; the log is an append-only trail.
	ActivityPostLiked ActivityType = "post_liked"

	// ActivityCommentAdded is recorded when a user comments on a post.
	ActivityCommentAdded ActivityType = "comment_added"

	// ActivityFriendAdded is recorded when a friend request is accepted.
	ActivityFriendAdded ActivityType = "friend_added"

	// ActivityThemeChanged is recorded when the theme cycles.
	ActivityThemeChanged ActivityType = "theme_changed"
)

// MaxActivityEntries caps the activity log; the oldest entries are
// trimmed once the cap is exceeded.
const MaxActivityEntries = 100

// Activity is a single entry in the session activity log.
// User info is denormalized so the log renders without lookups.
type Activity struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	UserName  string       `json:"user_name"`
	Type      ActivityType `json:"type"`
	Detail    string       `json:"detail,omitempty"` // e.g. post excerpt, friend name
	CreatedAt time.Time    `json:"created_at"`
}
