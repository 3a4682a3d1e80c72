package router

import (
	"github.com/socialsphere/socialsphere-app/internal/domain"
	"github.com/socialsphere/socialsphere-app/internal/state"
)

// Event is a user or lifecycle action dispatched to the router. Every
// event is handled on the single router goroutine, so handlers never
// race each other.
type Event interface {
	// Name identifies the event in logs.
	Name() string
}

// AppStarted fires once at startup. It restores a remembered session
// and loads the initial view data.
type AppStarted struct{}

func (AppStarted) Name() string { return "app_started" }

// LoginSubmitted carries the login form.
type LoginSubmitted struct {
	Username string
	Password string
	Remember bool
}

func (LoginSubmitted) Name() string { return "login_submitted" }

// RegisterSubmitted carries the registration form.
type RegisterSubmitted struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	DisplayName     string
}

func (RegisterSubmitted) Name() string { return "register_submitted" }

// DemoLoginRequested signs in with the seeded demo account.
type DemoLoginRequested struct{}

func (DemoLoginRequested) Name() string { return "demo_login_requested" }

// LogoutRequested ends the current session.
type LogoutRequested struct{}

func (LogoutRequested) Name() string { return "logout_requested" }

// PostSubmitted publishes the composer content.
type PostSubmitted struct {
	Content string
}

func (PostSubmitted) Name() string { return "post_submitted" }

// PostDeleted removes the current user's post.
type PostDeleted struct {
	PostID string
}

func (PostDeleted) Name() string { return "post_deleted" }

// LikeToggled flips the current user's like on a post.
type LikeToggled struct {
	PostID string
}

func (LikeToggled) Name() string { return "like_toggled" }

// CommentSubmitted adds a comment to a post.
type CommentSubmitted struct {
	PostID  string
	Content string
}

func (CommentSubmitted) Name() string { return "comment_submitted" }

// SearchChanged fires on every keystroke in the search box.
type SearchChanged struct {
	Query string
}

func (SearchChanged) Name() string { return "search_changed" }

// SearchCleared hides the search dropdown.
type SearchCleared struct{}

func (SearchCleared) Name() string { return "search_cleared" }

// ThemeToggled advances the theme cycle.
type ThemeToggled struct{}

func (ThemeToggled) Name() string { return "theme_toggled" }

// LanguageChanged switches the interface language.
type LanguageChanged struct {
	Language string // BCP 47 tag
}

func (LanguageChanged) Name() string { return "language_changed" }

// PageNavigated switches the main content page.
type PageNavigated struct {
	Page state.Page

	// TargetUserID selects whose profile to show or which conversation
	// to open; empty means the current user / no conversation.
	TargetUserID string
}

func (PageNavigated) Name() string { return "page_navigated" }

// NotificationRead marks one notification read.
type NotificationRead struct {
	NotificationID string
}

func (NotificationRead) Name() string { return "notification_read" }

// AllNotificationsRead clears the unread badge.
type AllNotificationsRead struct{}

func (AllNotificationsRead) Name() string { return "all_notifications_read" }

// FriendRequested sends a friend request to a user.
type FriendRequested struct {
	UserID string
}

func (FriendRequested) Name() string { return "friend_requested" }

// FriendAccepted accepts a pending request from a user.
type FriendAccepted struct {
	UserID string
}

func (FriendAccepted) Name() string { return "friend_accepted" }

// MessageSent sends a direct message.
type MessageSent struct {
	RecipientID string
	Content     string
}

func (MessageSent) Name() string { return "message_sent" }

// ProfileSaved applies profile edits for the current user.
type ProfileSaved struct {
	DisplayName string
	Bio         string
}

func (ProfileSaved) Name() string { return "profile_saved" }

// DraftChanged fires as the user types in the composer. The content is
// kept in state and flushed to the cache by the autosave task.
type DraftChanged struct {
	Content string
}

func (DraftChanged) Name() string { return "draft_changed" }

// SettingsSaved persists the settings form.
type SettingsSaved struct {
	Settings domain.Settings
}

func (SettingsSaved) Name() string { return "settings_saved" }

// ModalOpened shows a modal. The router only tracks which modal is
// active; the embedding shell reads it from state.
type ModalOpened struct {
	Modal string // e.g. "login", "register", "comments"
}

func (ModalOpened) Name() string { return "modal_opened" }

// ModalClosed hides the active modal.
type ModalClosed struct{}

func (ModalClosed) Name() string { return "modal_closed" }

// NotificationsToggled opens or closes the bell dropdown. Opening also
// refreshes the list so it is current when shown.
type NotificationsToggled struct{}

func (NotificationsToggled) Name() string { return "notifications_toggled" }
