// Package view renders application state into HTML fragments for named
// view regions. Renderers are pure with respect to state: they read a
// snapshot, produce markup, and write it into a bound region buffer.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/socialsphere/socialsphere-app/internal/domain"
	"github.com/socialsphere/socialsphere-app/internal/state"
	"github.com/socialsphere/socialsphere-app/internal/view/reltime"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// excerptLength caps post excerpts in search results.
const excerptLength = 50

// Renderer maps state slices to markup for view regions.
type Renderer struct {
	tmpl    *template.Template
	binder  *Binder
	rt      *reltime.Formatter
	logger  *slog.Logger
	russian bool

	// now is swappable in tests for deterministic timestamps.
	now func() time.Time
}

// NewRenderer parses the embedded templates and validates that every
// required region is bound. Either failing is a startup error.
func NewRenderer(binder *Binder, lang string, logger *slog.Logger) (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse view templates: %w", err)
	}

	if err := binder.Validate(); err != nil {
		return nil, err
	}

	return &Renderer{
		tmpl:    tmpl,
		binder:  binder,
		rt:      reltime.New(lang),
		logger:  logger,
		russian: !strings.HasPrefix(strings.ToLower(lang), "en"),
		now:     time.Now,
	}, nil
}

// SetLanguage switches the language used for phrases and timestamps.
func (r *Renderer) SetLanguage(lang string) {
	r.rt = reltime.New(lang)
	r.russian = !strings.HasPrefix(strings.ToLower(lang), "en")
}

// render executes a named template and writes the result into a region.
func (r *Renderer) render(region state.Region, name string, data any) error {
	buf, err := r.binder.Region(region)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&out, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	buf.SetHTML(out.String())
	if r.logger != nil {
		r.logger.Debug("region rendered", "region", string(region), "bytes", out.Len())
	}
	return nil
}

// initial returns the uppercased first rune of a name, for avatars.
func initial(name string) string {
	for _, r := range name {
		return string(unicode.ToUpper(r))
	}
	return "?"
}

// excerpt shortens content for search results.
func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLength {
		return content
	}
	return string(runes[:excerptLength]) + "…"
}

// postView is the per-post feed view model.
type postView struct {
	ID            string
	AuthorName    string
	AuthorInitial string
	AvatarColor   string
	Body          template.HTML
	Ago           string
	CreatedAtISO  string
	Likes         int
	Comments      int
	Liked         bool
	Pinned        bool
}

// feedView is the feed template view model.
type feedView struct {
	Posts     []postView
	MaxLength int
	Russian   bool
}

// RenderFeed renders the post feed. Comment counts come from the
// caller since comments live outside the post record.
func (r *Renderer) RenderFeed(posts []*domain.Post, commentCounts map[string]int, viewerID string, avatarColor func(string) string) error {
	now := r.now()
	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, postView{
			ID:            p.ID,
			AuthorName:    p.AuthorName,
			AuthorInitial: initial(p.AuthorName),
			AvatarColor:   avatarColor(p.AuthorID),
			Body:          Linkify(p.Content),
			Ago:           r.rt.Ago(p.CreatedAt, now),
			CreatedAtISO:  p.CreatedAt.UTC().Format(time.RFC3339),
			Likes:         p.LikeCount(),
			Comments:      commentCounts[p.ID],
			Liked:         viewerID != "" && p.LikedBy(viewerID),
			Pinned:        p.Pinned,
		})
	}

	return r.render(state.RegionFeed, "feed", feedView{
		Posts:     views,
		MaxLength: domain.MaxPostContentLength,
		Russian:   r.russian,
	})
}

// notificationView is the per-notification view model.
type notificationView struct {
	ID      string
	Type    string
	Message string
	Ago     string
	Read    bool
}

// RenderNotifications renders the notification dropdown.
func (r *Renderer) RenderNotifications(notifications []*domain.Notification) error {
	now := r.now()
	items := make([]notificationView, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, notificationView{
			ID:      n.ID,
			Type:    string(n.Type),
			Message: n.Message,
			Ago:     r.rt.Ago(n.CreatedAt, now),
			Read:    n.Read,
		})
	}

	return r.render(state.RegionNotifications, "notifications", struct {
		Items   []notificationView
		Russian bool
	}{items, r.russian})
}

// headerView is the top-bar view model.
type headerView struct {
	Authenticated bool
	UserID        string
	DisplayName   string
	Initial       string
	AvatarColor   string
	Unread        int
	Badge         string
	Theme         string
}

// RenderHeader renders the top bar: user, bell badge, theme control.
func (r *Renderer) RenderHeader(user *domain.User, unread int, theme domain.Theme) error {
	view := headerView{
		Unread: unread,
		Badge:  domain.BadgeLabel(unread),
		Theme:  string(theme),
	}
	if user != nil {
		view.Authenticated = true
		view.UserID = user.ID
		view.DisplayName = user.Name()
		view.Initial = initial(user.Name())
		view.AvatarColor = user.AvatarColor
	}

	return r.render(state.RegionHeader, "header", view)
}

// userView is a compact user row for search and sidebars.
type userView struct {
	ID          string
	DisplayName string
	Initial     string
	AvatarColor string
}

func toUserView(u *domain.User) userView {
	return userView{
		ID:          u.ID,
		DisplayName: u.Name(),
		Initial:     initial(u.Name()),
		AvatarColor: u.AvatarColor,
	}
}

// searchView is the search dropdown view model.
type searchView struct {
	Hidden  bool
	Users   []userView
	Posts   []struct{ ID, Excerpt string }
	Tags    []string
	Empty   bool
	Russian bool
}

// RenderSearchResults renders the search dropdown. A nil result set
// hides the dropdown entirely (query too short or cleared).
func (r *Renderer) RenderSearchResults(results *state.SearchResults) error {
	if results == nil {
		return r.render(state.RegionSearch, "search", searchView{Hidden: true})
	}

	view := searchView{
		Tags:    results.Tags,
		Empty:   results.Empty(),
		Russian: r.russian,
	}
	for _, u := range results.Users {
		view.Users = append(view.Users, toUserView(u))
	}
	for _, p := range results.Posts {
		view.Posts = append(view.Posts, struct{ ID, Excerpt string }{p.ID, excerpt(p.Content)})
	}

	return r.render(state.RegionSearch, "search", view)
}

// activityView is the per-entry activity view model.
type activityView struct {
	Type     string
	UserName string
	Detail   string
	Ago      string
}

// RenderActivity renders the recent-activity sidebar block.
func (r *Renderer) RenderActivity(activities []*domain.Activity) error {
	now := r.now()
	items := make([]activityView, 0, len(activities))
	for _, a := range activities {
		items = append(items, activityView{
			Type:     string(a.Type),
			UserName: a.UserName,
			Detail:   a.Detail,
			Ago:      r.rt.Ago(a.CreatedAt, now),
		})
	}

	return r.render(state.RegionActivity, "activity", struct {
		Items   []activityView
		Russian bool
	}{items, r.russian})
}

// RenderActiveUsers renders the active-users sidebar block.
func (r *Renderer) RenderActiveUsers(users []*domain.User) error {
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}

	return r.render(state.RegionActiveUsers, "active_users", struct {
		Users   []userView
		Russian bool
	}{views, r.russian})
}
