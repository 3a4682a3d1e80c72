package view

import (
	"time"

	"github.com/socialsphere/socialsphere-app/internal/domain"
	"github.com/socialsphere/socialsphere-app/internal/state"
)

// profileView is the profile page view model.
type profileView struct {
	DisplayName  string
	Initial      string
	AvatarColor  string
	Bio          string
	PostsCount   int
	FriendsCount int
}

// friendView is one row on the friends page.
type friendView struct {
	ID          string
	DisplayName string
	Initial     string
	AvatarColor string
	Status      string
}

// messageView is one bubble on the messages page.
type messageView struct {
	ID      string
	Content string
	Ago     string
	Own     bool
}

// pageView is the main content area view model.
type pageView struct {
	Page     string
	Russian  bool
	Profile  profileView
	Friends  []friendView
	Messages []messageView
	Settings domain.Settings
}

// PageData carries everything the current page might need. Only the
// slice for the active page is consulted.
type PageData struct {
	Page     state.Page
	Profile  *domain.User
	Friends  []*domain.User
	Statuses map[string]domain.FriendStatus // By user ID
	Messages []*domain.Message
	ViewerID string
	Settings domain.Settings
}

// RenderPage renders the main content area for the current page.
func (r *Renderer) RenderPage(data PageData) error {
	now := r.now()

	view := pageView{
		Page:     string(data.Page),
		Russian:  r.russian,
		Settings: data.Settings,
	}

	if data.Profile != nil {
		view.Profile = profileView{
			DisplayName:  data.Profile.Name(),
			Initial:      initial(data.Profile.Name()),
			AvatarColor:  data.Profile.AvatarColor,
			Bio:          data.Profile.Bio,
			PostsCount:   data.Profile.PostsCount,
			FriendsCount: data.Profile.FriendsCount,
		}
	}

	for _, friend := range data.Friends {
		status := data.Statuses[friend.ID]
		if status == "" {
			status = domain.FriendAccepted
		}
		view.Friends = append(view.Friends, friendView{
			ID:          friend.ID,
			DisplayName: friend.Name(),
			Initial:     initial(friend.Name()),
			AvatarColor: friend.AvatarColor,
			Status:      string(status),
		})
	}

	for _, msg := range data.Messages {
		view.Messages = append(view.Messages, messageView{
			ID:      msg.ID,
			Content: msg.Content,
			Ago:     r.rt.Ago(msg.CreatedAt, now),
			Own:     msg.SenderID == data.ViewerID,
		})
	}

	return r.render(state.RegionPage, "page", view)
}

// setNow is a test seam for deterministic rendering.
func (r *Renderer) setNow(now func() time.Time) { r.now = now }
