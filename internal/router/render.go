package router

import (
	"github.com/socialsphere/socialsphere-app/internal/color"
	"github.com/socialsphere/socialsphere-app/internal/domain"
	"github.com/socialsphere/socialsphere-app/internal/state"
)

// renderRegion repaints one region from the current state. Runs on the
// Run goroutine.
func (r *Router) renderRegion(region state.Region) {
	var err error
	switch region {
	case state.RegionFeed:
		err = r.renderFeed()
	case state.RegionNotifications:
		err = r.renderNotifications()
	case state.RegionHeader:
		err = r.renderHeader()
	case state.RegionSearch:
		err = r.renderSearch()
	case state.RegionPage:
		err = r.renderPage()
	case state.RegionActivity:
		err = r.renderActivity()
	case state.RegionActiveUsers:
		err = r.renderActiveUsers()
	default:
		r.logger.Warn("no renderer for region", "region", string(region))
		return
	}

	if err != nil {
		r.logger.Error("render failed", "region", string(region), "error", err)
	}
}

func (r *Router) renderFeed() error {
	var (
		posts    []*domain.Post
		counts   map[string]int
		viewerID string
	)
	r.app.View(func(s *state.State) {
		posts = s.Posts
		counts = s.CommentCounts
		if s.CurrentUser != nil {
			viewerID = s.CurrentUser.ID
		}
	})
	return r.renderer.RenderFeed(posts, counts, viewerID, color.ForUser)
}

func (r *Router) renderNotifications() error {
	var notifications []*domain.Notification
	r.app.View(func(s *state.State) { notifications = s.Notifications })
	return r.renderer.RenderNotifications(notifications)
}

func (r *Router) renderHeader() error {
	var (
		user   *domain.User
		unread int
		theme  domain.Theme
	)
	r.app.View(func(s *state.State) {
		user = s.CurrentUser
		unread = s.UnreadCount()
		theme = s.Theme
	})
	return r.renderer.RenderHeader(user, unread, theme)
}

func (r *Router) renderSearch() error {
	var results *state.SearchResults
	r.app.View(func(s *state.State) { results = s.SearchResults })
	return r.renderer.RenderSearchResults(results)
}

func (r *Router) renderPage() error {
	data := r.page
	r.app.View(func(s *state.State) {
		data.Page = s.CurrentPage
		if s.CurrentUser != nil {
			data.ViewerID = s.CurrentUser.ID
		}
	})
	if data.Page == "" {
		data.Page = state.PageFeed
	}
	return r.renderer.RenderPage(data)
}

func (r *Router) renderActivity() error {
	var activities []*domain.Activity
	r.app.View(func(s *state.State) { activities = s.Activities })
	return r.renderer.RenderActivity(activities)
}

func (r *Router) renderActiveUsers() error {
	var users []*domain.User
	r.app.View(func(s *state.State) { users = s.ActiveUsers })
	return r.renderer.RenderActiveUsers(users)
}
