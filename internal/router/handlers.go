package router

import (
	"context"
	"fmt"

	"github.com/socialsphere/socialsphere-app/internal/domain"
	domainerrors "github.com/socialsphere/socialsphere-app/internal/errors"
	"github.com/socialsphere/socialsphere-app/internal/service"
	"github.com/socialsphere/socialsphere-app/internal/state"
	"github.com/socialsphere/socialsphere-app/internal/view"
)

// activityLimit is how many activity entries the sidebar shows.
const activityLimit = 20

func (r *Router) handleAppStarted(ctx context.Context) error {
	settings, err := r.services.Settings.Get(ctx)
	if err != nil {
		return err
	}
	r.renderer.SetLanguage(settings.Language)
	r.settings = settings

	draft, err := r.services.Settings.LoadDraft(ctx)
	if err != nil {
		r.logger.Warn("failed to restore draft", "error", err)
	}

	user, err := r.services.Auth.RestoreSession(ctx)
	if err != nil {
		if !domainerrors.Is(err, domainerrors.ErrUnauthorized) &&
			!domainerrors.Is(err, domainerrors.ErrTokenExpired) {
			return err
		}
		r.logger.Info("no session to restore")
		user = nil
	}

	r.app.Update(func(s *state.State) []state.Region {
		s.CurrentUser = user
		s.Authenticated = user != nil
		s.Theme = settings.Theme
		s.Language = settings.Language
		s.ComposerDraft = draft
		return []state.Region{state.RegionHeader, state.RegionPage}
	})

	if user != nil {
		return r.refreshAll(ctx)
	}
	return r.refreshFeed(ctx)
}

func (r *Router) handleLogin(ctx context.Context, e LoginSubmitted) error {
	resp, err := r.services.Auth.Login(ctx, service.LoginRequest{
		Username: e.Username,
		Password: e.Password,
		Remember: e.Remember,
	})
	if err != nil {
		return err
	}
	return r.signIn(ctx, resp.User)
}

func (r *Router) handleRegister(ctx context.Context, e RegisterSubmitted) error {
	user, err := r.services.Auth.Register(ctx, service.RegisterRequest{
		Username:        e.Username,
		Email:           e.Email,
		Password:        e.Password,
		ConfirmPassword: e.ConfirmPassword,
		DisplayName:     e.DisplayName,
	})
	if err != nil {
		return err
	}

	// Registration signs the user straight in.
	resp, err := r.services.Auth.Login(ctx, service.LoginRequest{
		Username: e.Username,
		Password: e.Password,
	})
	if err != nil {
		return err
	}
	r.logger.Info("registered and signed in", "user_id", user.ID)
	return r.signIn(ctx, resp.User)
}

func (r *Router) handleDemoLogin(ctx context.Context) error {
	resp, err := r.services.Auth.DemoLogin(ctx)
	if err != nil {
		return err
	}
	return r.signIn(ctx, resp.User)
}

// signIn publishes the authenticated user to state and reloads the
// signed-in view.
func (r *Router) signIn(ctx context.Context, user *domain.User) error {
	r.services.Activity.Record(ctx, user, domain.ActivityLogin, "")

	r.app.Update(func(s *state.State) []state.Region {
		s.CurrentUser = user
		s.Authenticated = true
		s.CurrentPage = state.PageFeed
		return []state.Region{state.RegionHeader, state.RegionPage}
	})
	return r.refreshAll(ctx)
}

func (r *Router) handleLogout(ctx context.Context) error {
	var user *domain.User
	r.app.View(func(s *state.State) { user = s.CurrentUser })
	r.services.Activity.Record(ctx, user, domain.ActivityLogout, "")

	if err := r.services.Auth.Logout(ctx); err != nil {
		return err
	}

	r.page = view.PageData{}
	r.app.Update(func(s *state.State) []state.Region {
		s.CurrentUser = nil
		s.Authenticated = false
		s.Notifications = nil
		s.SearchQuery = ""
		s.SearchResults = nil
		s.CurrentPage = state.PageFeed
		return []state.Region{
			state.RegionHeader, state.RegionNotifications,
			state.RegionSearch, state.RegionPage,
		}
	})
	return r.refreshFeed(ctx)
}

func (r *Router) handlePostSubmitted(ctx context.Context, e PostSubmitted) error {
	userID := r.currentUserID()
	if userID == "" {
		return domainerrors.Unauthorized("sign in to post")
	}

	post, err := r.services.Posts.CreatePost(ctx, service.CreatePostRequest{
		AuthorID: userID,
		Content:  e.Content,
	})
	if err != nil {
		return err
	}

	// A published post retires its draft.
	if err := r.services.Settings.ClearDraft(ctx); err != nil {
		r.logger.Warn("failed to clear draft", "error", err)
	}
	r.app.Update(func(s *state.State) []state.Region {
		s.ComposerDraft = ""
		return nil
	})

	r.recordActivity(ctx, domain.ActivityPostCreated, excerptForActivity(post.Content))
	return r.refreshFeed(ctx)
}

func (r *Router) handleDraftChanged(ctx context.Context, e DraftChanged) error {
	// Keystrokes only touch state; the autosave task persists it.
	r.app.Update(func(s *state.State) []state.Region {
		s.ComposerDraft = e.Content
		return nil
	})
	return nil
}

func (r *Router) handlePostDeleted(ctx context.Context, e PostDeleted) error {
	userID := r.currentUserID()
	if userID == "" {
		return domainerrors.Unauthorized("sign in first")
	}
	if err := r.services.Posts.DeletePost(ctx, e.PostID, userID); err != nil {
		return err
	}
	return r.refreshFeed(ctx)
}

func (r *Router) handleLikeToggled(ctx context.Context, e LikeToggled) error {
	userID := r.currentUserID()
	if userID == "" {
		return domainerrors.Unauthorized("sign in to like posts")
	}

	result, err := r.services.Posts.ToggleLike(ctx, e.PostID, userID)
	if err != nil {
		return err
	}

	// Patch the loaded copy instead of reloading the whole feed.
	r.app.Update(func(s *state.State) []state.Region {
		if post := s.PostByID(e.PostID); post != nil {
			if result.Liked && !post.LikedBy(userID) {
				post.ToggleLike(userID)
			} else if !result.Liked && post.LikedBy(userID) {
				post.ToggleLike(userID)
			}
		}
		return []state.Region{state.RegionFeed}
	})

	if result.Liked {
		r.recordActivity(ctx, domain.ActivityPostLiked, "")
	}
	return nil
}

func (r *Router) handleCommentSubmitted(ctx context.Context, e CommentSubmitted) error {
	userID := r.currentUserID()
	if userID == "" {
		return domainerrors.Unauthorized("sign in to comment")
	}

	if _, err := r.services.Posts.AddComment(ctx, service.AddCommentRequest{
		PostID:  e.PostID,
		UserID:  userID,
		Content: e.Content,
	}); err != nil {
		return err
	}

	r.app.Update(func(s *state.State) []state.Region {
		if s.CommentCounts == nil {
			s.CommentCounts = make(map[string]int)
		}
		s.CommentCounts[e.PostID]++
		return []state.Region{state.RegionFeed}
	})

	r.recordActivity(ctx, domain.ActivityCommentAdded, "")
	return nil
}

func (r *Router) handleSearchChanged(ctx context.Context, e SearchChanged) error {
	results, err := r.services.Search.Query(ctx, e.Query)
	if err != nil {
		return err
	}

	r.app.Update(func(s *state.State) []state.Region {
		s.SearchQuery = e.Query
		s.SearchResults = results
		return []state.Region{state.RegionSearch}
	})
	return nil
}

func (r *Router) handleSearchCleared(ctx context.Context) error {
	r.app.Update(func(s *state.State) []state.Region {
		s.SearchQuery = ""
		s.SearchResults = nil
		return []state.Region{state.RegionSearch}
	})
	return nil
}

func (r *Router) handleThemeToggled(ctx context.Context) error {
	theme, err := r.services.Settings.CycleTheme(ctx)
	if err != nil {
		return err
	}
	r.settings.Theme = theme

	r.app.Update(func(s *state.State) []state.Region {
		s.Theme = theme
		return []state.Region{state.RegionHeader}
	})

	r.recordActivity(ctx, domain.ActivityThemeChanged, string(theme))
	return nil
}

func (r *Router) handleLanguageChanged(ctx context.Context, e LanguageChanged) error {
	if err := r.services.Settings.SetLanguage(ctx, e.Language); err != nil {
		return err
	}
	r.renderer.SetLanguage(e.Language)
	r.settings.Language = e.Language

	// Every region shows translated text; repaint all of them.
	r.app.Update(func(s *state.State) []state.Region {
		s.Language = e.Language
		return []state.Region{
			state.RegionFeed, state.RegionNotifications, state.RegionHeader,
			state.RegionSearch, state.RegionPage, state.RegionActivity,
			state.RegionActiveUsers,
		}
	})
	return nil
}

func (r *Router) handlePageNavigated(ctx context.Context, e PageNavigated) error {
	userID := r.currentUserID()

	page := view.PageData{
		Page:     e.Page,
		ViewerID: userID,
		Settings: r.settings,
	}

	switch e.Page {
	case state.PageProfile:
		targetID := e.TargetUserID
		if targetID == "" {
			targetID = userID
		}
		if targetID == "" {
			return domainerrors.Unauthorized("sign in to view profiles")
		}
		profile, err := r.services.Users.GetProfile(ctx, targetID, userID)
		if err != nil {
			return err
		}
		page.Profile = profile.User

	case state.PageFriends:
		if userID == "" {
			return domainerrors.Unauthorized("sign in to view friends")
		}
		entries, err := r.services.Friends.ListFriends(ctx, userID)
		if err != nil {
			return err
		}
		page.Statuses = make(map[string]domain.FriendStatus, len(entries))
		for _, entry := range entries {
			page.Friends = append(page.Friends, entry.User)
			page.Statuses[entry.User.ID] = entry.Status
		}

	case state.PageMessages:
		if userID != "" && e.TargetUserID != "" {
			messages, err := r.services.Messages.Conversation(ctx, userID, e.TargetUserID)
			if err != nil {
				return err
			}
			page.Messages = messages
			r.messagePeer = e.TargetUserID
		}

	case state.PageSettings:
		settings, err := r.services.Settings.Get(ctx)
		if err != nil {
			return err
		}
		r.settings = settings
		page.Settings = settings
	}

	r.page = page
	r.app.Update(func(s *state.State) []state.Region {
		s.CurrentPage = e.Page
		return []state.Region{state.RegionPage}
	})
	return nil
}

func (r *Router) handleNotificationRead(ctx context.Context, e NotificationRead) error {
	if err := r.services.Notifications.MarkRead(ctx, e.NotificationID); err != nil {
		return err
	}

	r.app.Update(func(s *state.State) []state.Region {
		for _, n := range s.Notifications {
			if n.ID == e.NotificationID {
				n.Read = true
			}
		}
		return []state.Region{state.RegionNotifications, state.RegionHeader}
	})
	return nil
}

func (r *Router) handleAllNotificationsRead(ctx context.Context) error {
	userID := r.currentUserID()
	if userID == "" {
		return nil
	}

	if _, err := r.services.Notifications.MarkAllRead(ctx, userID); err != nil {
		return err
	}

	r.app.Update(func(s *state.State) []state.Region {
		for _, n := range s.Notifications {
			n.Read = true
		}
		return []state.Region{state.RegionNotifications, state.RegionHeader}
	})
	return nil
}

func (r *Router) handleFriendRequested(ctx context.Context, e FriendRequested) error {
	userID := r.currentUserID()
	if userID == "" {
		return domainerrors.Unauthorized("sign in to add friends")
	}
	_, err := r.services.Friends.Request(ctx, userID, e.UserID)
	return err
}

func (r *Router) handleFriendAccepted(ctx context.Context, e FriendAccepted) error {
	userID := r.currentUserID()
	if userID == "" {
		return domainerrors.Unauthorized("sign in first")
	}
	if err := r.services.Friends.Accept(ctx, userID, e.UserID); err != nil {
		return err
	}

	if friend, err := r.services.Users.Get(ctx, e.UserID); err == nil {
		r.recordActivity(ctx, domain.ActivityFriendAdded, friend.Name())
	}

	// Refresh the friends page if it is open.
	var onFriends bool
	r.app.View(func(s *state.State) { onFriends = s.CurrentPage == state.PageFriends })
	if onFriends {
		return r.handlePageNavigated(ctx, PageNavigated{Page: state.PageFriends})
	}
	return nil
}

func (r *Router) handleMessageSent(ctx context.Context, e MessageSent) error {
	userID := r.currentUserID()
	if userID == "" {
		return domainerrors.Unauthorized("sign in to send messages")
	}

	if _, err := r.services.Messages.Send(ctx, userID, e.RecipientID, e.Content); err != nil {
		return err
	}

	// Reload the open conversation so the new bubble shows up.
	var onMessages bool
	r.app.View(func(s *state.State) { onMessages = s.CurrentPage == state.PageMessages })
	if onMessages && r.messagePeer == e.RecipientID {
		return r.handlePageNavigated(ctx, PageNavigated{
			Page:         state.PageMessages,
			TargetUserID: e.RecipientID,
		})
	}
	return nil
}

func (r *Router) handleProfileSaved(ctx context.Context, e ProfileSaved) error {
	userID := r.currentUserID()
	if userID == "" {
		return domainerrors.Unauthorized("sign in first")
	}

	user, err := r.services.Users.UpdateProfile(ctx, service.UpdateProfileRequest{
		UserID:      userID,
		DisplayName: e.DisplayName,
		Bio:         e.Bio,
	})
	if err != nil {
		return err
	}

	if r.page.Profile != nil && r.page.Profile.ID == userID {
		r.page.Profile = user
	}
	r.app.Update(func(s *state.State) []state.Region {
		s.CurrentUser = user
		return []state.Region{state.RegionHeader, state.RegionPage}
	})
	return nil
}

func (r *Router) handleSettingsSaved(ctx context.Context, e SettingsSaved) error {
	if err := r.services.Settings.Save(ctx, e.Settings); err != nil {
		return err
	}
	r.renderer.SetLanguage(e.Settings.Language)
	r.settings = e.Settings
	r.page.Settings = e.Settings

	r.app.Update(func(s *state.State) []state.Region {
		s.Theme = e.Settings.Theme
		s.Language = e.Settings.Language
		return []state.Region{state.RegionHeader, state.RegionPage}
	})
	return nil
}

func (r *Router) handleModalOpened(e ModalOpened) error {
	r.app.Update(func(s *state.State) []state.Region {
		s.ActiveModal = e.Modal
		return nil
	})
	return nil
}

func (r *Router) handleModalClosed() error {
	r.app.Update(func(s *state.State) []state.Region {
		s.ActiveModal = ""
		return nil
	})
	return nil
}

func (r *Router) handleNotificationsToggled(ctx context.Context) error {
	var opening bool
	r.app.Update(func(s *state.State) []state.Region {
		s.NotificationsOpen = !s.NotificationsOpen
		opening = s.NotificationsOpen
		return nil
	})

	if opening {
		return r.RefreshNotifications(ctx)
	}
	return nil
}

// refreshAll reloads every data-bearing region after sign-in.
func (r *Router) refreshAll(ctx context.Context) error {
	if err := r.refreshFeed(ctx); err != nil {
		return err
	}
	if err := r.RefreshNotifications(ctx); err != nil {
		return err
	}
	if err := r.RefreshActivities(ctx); err != nil {
		return err
	}
	return r.RefreshActiveUsers(ctx)
}

// refreshFeed reloads posts and comment counts into state.
func (r *Router) refreshFeed(ctx context.Context) error {
	feed, err := r.services.Posts.LoadFeed(ctx)
	if err != nil {
		return err
	}

	r.app.Update(func(s *state.State) []state.Region {
		s.Posts = feed.Posts
		s.CommentCounts = feed.CommentCounts
		return []state.Region{state.RegionFeed}
	})
	return nil
}

// RefreshNotifications reloads the signed-in user's notifications.
// Also called by the periodic task runner.
func (r *Router) RefreshNotifications(ctx context.Context) error {
	userID := r.currentUserID()
	if userID == "" {
		return nil
	}

	notifications, err := r.services.Notifications.List(ctx, userID)
	if err != nil {
		return err
	}

	r.app.Update(func(s *state.State) []state.Region {
		s.Notifications = notifications
		return []state.Region{state.RegionNotifications, state.RegionHeader}
	})
	return nil
}

// RefreshActivities reloads the activity sidebar.
func (r *Router) RefreshActivities(ctx context.Context) error {
	activities, err := r.services.Activity.Recent(ctx, activityLimit)
	if err != nil {
		return err
	}

	r.app.Update(func(s *state.State) []state.Region {
		s.Activities = activities
		return []state.Region{state.RegionActivity}
	})
	return nil
}

// RefreshActiveUsers reloads the active-users sidebar and refreshes
// the signed-in user's own presence.
func (r *Router) RefreshActiveUsers(ctx context.Context) error {
	if userID := r.currentUserID(); userID != "" {
		if err := r.services.Users.PingActivity(ctx, userID); err != nil {
			r.logger.Warn("failed to ping activity", "error", err)
		}
	}

	users, err := r.services.Users.ActiveUsers(ctx)
	if err != nil {
		return err
	}

	r.app.Update(func(s *state.State) []state.Region {
		s.ActiveUsers = users
		return []state.Region{state.RegionActiveUsers}
	})
	return nil
}

// AutosaveDraft flushes the composer draft to the cache. Called by the
// periodic task runner.
func (r *Router) AutosaveDraft(ctx context.Context) error {
	var draft string
	r.app.View(func(s *state.State) { draft = s.ComposerDraft })
	return r.services.Settings.SaveDraft(ctx, draft)
}

// recordActivity logs an entry for the signed-in user and repaints the
// sidebar.
func (r *Router) recordActivity(ctx context.Context, typ domain.ActivityType, detail string) {
	var user *domain.User
	r.app.View(func(s *state.State) { user = s.CurrentUser })
	if user == nil {
		return
	}

	r.services.Activity.Record(ctx, user, typ, detail)
	if err := r.RefreshActivities(ctx); err != nil {
		r.logger.Warn("failed to refresh activities", "error", err)
	}
}

// excerptForActivity trims post content for the activity log detail.
func excerptForActivity(content string) string {
	const max = 40
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return fmt.Sprintf("%s…", string(runes[:max]))
}
