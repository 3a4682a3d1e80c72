// Package state holds the single shared application state and the
// change-notification hub that keeps renderers in sync with it.
//
// Mutation discipline: all writes go through App.Update, which runs the
// mutation under the write lock and then notifies subscribers of the
// affected regions. A write that forgets to name its regions is a bug
// that shows up immediately as a stale view, not silently.
package state

import (
	"time"

	"github.com/socialsphere/socialsphere-app/internal/domain"
)

// Page identifies the main content page currently shown.
type Page string

const (
	PageFeed     Page = "feed"
	PageProfile  Page = "profile"
	PageMessages Page = "messages"
	PageFriends  Page = "friends"
	PageSettings Page = "settings"
)

// Region names a view region that renderers overwrite wholesale.
// Subscribers register for the regions they render.
type Region string

const (
	// RegionFeed is the post feed, including the composer.
	RegionFeed Region = "feed"

	// RegionNotifications is the notification dropdown list.
	RegionNotifications Region = "notifications"

	// RegionHeader is the top bar: current user, bell badge, theme.
	RegionHeader Region = "header"

	// RegionSearch is the search results dropdown.
	RegionSearch Region = "search"

	// RegionPage is the main content area outside the feed.
	RegionPage Region = "page"

	// RegionActivity is the recent-activity sidebar block.
	RegionActivity Region = "activity"

	// RegionActiveUsers is the active-users sidebar block.
	RegionActiveUsers Region = "active_users"
)

// State is the current authoritative view of what the UI should show.
// It holds transient in-memory copies; durable truth lives in the
// record store.
type State struct {
	CurrentUser   *domain.User
	Authenticated bool

	Posts         []*domain.Post
	CommentCounts map[string]int // By post ID
	Users         []*domain.User
	Notifications []*domain.Notification
	Activities    []*domain.Activity
	ActiveUsers   []*domain.User

	SearchQuery   string
	SearchResults *SearchResults

	// ComposerDraft is the unposted composer text, autosaved
	// periodically and restored at startup.
	ComposerDraft string

	// ActiveModal and NotificationsOpen track overlay visibility. The
	// embedding shell reads them from state; no region renders them.
	ActiveModal       string
	NotificationsOpen bool

	CurrentPage Page
	Theme       domain.Theme
	Language    string
	Online      bool

	LastActivityAt time.Time
}

// SearchResults groups matches by category for the search dropdown.
type SearchResults struct {
	Users []*domain.User
	Posts []*domain.Post
	Tags  []string
}

// Empty reports whether no category matched.
func (r *SearchResults) Empty() bool {
	return r == nil || (len(r.Users) == 0 && len(r.Posts) == 0 && len(r.Tags) == 0)
}

// UnreadCount returns the number of unread notifications in state.
func (s *State) UnreadCount() int {
	return domain.CountUnread(s.Notifications)
}

// PostByID finds a post in the loaded feed. Returns nil if not loaded.
func (s *State) PostByID(id string) *domain.Post {
	for _, p := range s.Posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// newState returns the unauthenticated boot state.
func newState() *State {
	return &State{
		CurrentPage: PageFeed,
		Theme:       domain.ThemeLight,
		Language:    domain.DefaultSettings().Language,
		Online:      true,
	}
}
