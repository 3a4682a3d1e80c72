// Package router dispatches UI events to the services and owns every
// write to the shared application state. Handlers run on a single
// goroutine; view regions are re-rendered there too, driven by the
// state hub's change notifications.
package router

import (
	"context"
	"log/slog"

	"github.com/socialsphere/socialsphere-app/internal/domain"
	"github.com/socialsphere/socialsphere-app/internal/service"
	"github.com/socialsphere/socialsphere-app/internal/state"
	"github.com/socialsphere/socialsphere-app/internal/view"
)

// eventBuffer bounds the dispatch queue. UI events are small and
// handled quickly; a full queue means a wedged handler, and dropping
// with a warning beats blocking the UI thread.
const eventBuffer = 128

// Router owns event dispatch and region rendering.
type Router struct {
	services *service.Services
	app      *state.App
	renderer *view.Renderer
	logger   *slog.Logger

	events chan Event

	// Confined to the Run goroutine: handlers and renders both execute
	// there, so no locking is needed.
	page        view.PageData
	settings    domain.Settings
	messagePeer string
}

// New creates a router. Call Run to start handling events.
func New(services *service.Services, app *state.App, renderer *view.Renderer, logger *slog.Logger) *Router {
	return &Router{
		services: services,
		app:      app,
		renderer: renderer,
		logger:   logger,
		events:   make(chan Event, eventBuffer),
		settings: domain.DefaultSettings(),
	}
}

// Dispatch enqueues an event for handling. It never blocks; when the
// queue is full the event is dropped with a warning.
func (r *Router) Dispatch(event Event) {
	select {
	case r.events <- event:
	default:
		r.logger.Warn("event queue full, dropping event", "event", event.Name())
	}
}

// Run handles events and change notifications until the context is
// cancelled. It blocks, so start it on its own goroutine.
func (r *Router) Run(ctx context.Context) error {
	sub, err := r.app.Subscribe() // All regions
	if err != nil {
		return err
	}
	defer r.app.Unsubscribe(sub.ID)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event := <-r.events:
			r.handle(ctx, event)

		case region, ok := <-sub.Changes:
			if !ok {
				return nil
			}
			r.renderRegion(region)
		}
	}
}

// handle routes one event to its handler.
func (r *Router) handle(ctx context.Context, event Event) {
	r.logger.Debug("handling event", "event", event.Name())

	var err error
	switch e := event.(type) {
	case AppStarted:
		err = r.handleAppStarted(ctx)
	case LoginSubmitted:
		err = r.handleLogin(ctx, e)
	case RegisterSubmitted:
		err = r.handleRegister(ctx, e)
	case DemoLoginRequested:
		err = r.handleDemoLogin(ctx)
	case LogoutRequested:
		err = r.handleLogout(ctx)
	case PostSubmitted:
		err = r.handlePostSubmitted(ctx, e)
	case PostDeleted:
		err = r.handlePostDeleted(ctx, e)
	case LikeToggled:
		err = r.handleLikeToggled(ctx, e)
	case CommentSubmitted:
		err = r.handleCommentSubmitted(ctx, e)
	case SearchChanged:
		err = r.handleSearchChanged(ctx, e)
	case SearchCleared:
		err = r.handleSearchCleared(ctx)
	case ThemeToggled:
		err = r.handleThemeToggled(ctx)
	case LanguageChanged:
		err = r.handleLanguageChanged(ctx, e)
	case PageNavigated:
		err = r.handlePageNavigated(ctx, e)
	case NotificationRead:
		err = r.handleNotificationRead(ctx, e)
	case AllNotificationsRead:
		err = r.handleAllNotificationsRead(ctx)
	case FriendRequested:
		err = r.handleFriendRequested(ctx, e)
	case FriendAccepted:
		err = r.handleFriendAccepted(ctx, e)
	case MessageSent:
		err = r.handleMessageSent(ctx, e)
	case DraftChanged:
		err = r.handleDraftChanged(ctx, e)
	case ProfileSaved:
		err = r.handleProfileSaved(ctx, e)
	case SettingsSaved:
		err = r.handleSettingsSaved(ctx, e)
	case ModalOpened:
		err = r.handleModalOpened(e)
	case ModalClosed:
		err = r.handleModalClosed()
	case NotificationsToggled:
		err = r.handleNotificationsToggled(ctx)
	default:
		r.logger.Warn("unhandled event", "event", event.Name())
		return
	}

	if err != nil {
		r.logger.Error("event handler failed", "event", event.Name(), "error", err)
	}
}

// currentUserID returns the signed-in user's ID, or "" when signed out.
func (r *Router) currentUserID() string {
	var userID string
	r.app.View(func(s *state.State) {
		if s.CurrentUser != nil {
			userID = s.CurrentUser.ID
		}
	})
	return userID
}
