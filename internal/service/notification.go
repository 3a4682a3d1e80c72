package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/socialsphere/socialsphere-app/internal/desktop"
	"github.com/socialsphere/socialsphere-app/internal/domain"
	domainerrors "github.com/socialsphere/socialsphere-app/internal/errors"
	"github.com/socialsphere/socialsphere-app/internal/id"
	"github.com/socialsphere/socialsphere-app/internal/store"
)

// NotificationService manages the per-user notification inbox and
// mirrors notifications to the desktop when settings allow it.
type NotificationService struct {
	store    *store.Store
	settings *SettingsService
	desktop  desktop.Notifier
	logger   *slog.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(st *store.Store, settings *SettingsService, notifier desktop.Notifier, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		store:    st,
		settings: settings,
		desktop:  notifier,
		logger:   logger,
	}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]*domain.Notification, error) {
	notifications, err := s.store.NotificationsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}

	// The user index iterates in record-ID order, not time order.
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

// UnreadCount returns the number of unread notifications for the user.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.store.UnreadNotificationCount(ctx, userID)
}

// MarkRead marks one notification read. Already-read notifications are
// left alone.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID string) error {
	notification, err := s.store.Notifications.Get(ctx, notificationID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("notification not found")
		}
		return fmt.Errorf("load notification: %w", err)
	}
	if notification.Read {
		return nil
	}

	notification.Read = true
	notification.Touch()
	if err := s.store.Notifications.Update(ctx, notificationID, notification); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead marks every unread notification for the user as read and
// returns how many were updated.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	notifications, err := s.store.NotificationsForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load notifications: %w", err)
	}

	updated := 0
	for _, notification := range notifications {
		if notification.Read {
			continue
		}
		notification.Read = true
		notification.Touch()
		if err := s.store.Notifications.Update(ctx, notification.ID, notification); err != nil {
			return updated, fmt.Errorf("mark notification read: %w", err)
		}
		updated++
	}
	return updated, nil
}

// NotifyLike records a like notification for the post author.
func (s *NotificationService) NotifyLike(ctx context.Context, userID, actorName string) {
	s.create(ctx, userID, domain.NotificationLike,
		fmt.Sprintf("%s оценил(а) вашу запись", actorName))
}

// NotifyComment records a comment notification for the post author.
func (s *NotificationService) NotifyComment(ctx context.Context, userID, actorName string) {
	s.create(ctx, userID, domain.NotificationComment,
		fmt.Sprintf("%s прокомментировал(а) вашу запись", actorName))
}

// NotifyFriendRequest records a friend-request notification.
func (s *NotificationService) NotifyFriendRequest(ctx context.Context, userID, actorName string) {
	s.create(ctx, userID, domain.NotificationFriendRequest,
		fmt.Sprintf("%s хочет добавить вас в друзья", actorName))
}

// NotifyMessage records a new-message notification.
func (s *NotificationService) NotifyMessage(ctx context.Context, userID, actorName string) {
	s.create(ctx, userID, domain.NotificationMessage,
		fmt.Sprintf("Новое сообщение от %s", actorName))
}

// NotifySystem records a system notification.
func (s *NotificationService) NotifySystem(ctx context.Context, userID, message string) {
	s.create(ctx, userID, domain.NotificationSystem, message)
}

// create stores a notification and bridges it to the desktop.
// Notification delivery is best-effort; the triggering operation
// already succeeded, so failures are logged, not returned.
func (s *NotificationService) create(ctx context.Context, userID string, typ domain.NotificationType, message string) {
	notificationID, err := id.Generate("notif")
	if err != nil {
		s.logger.Warn("failed to generate notification ID", "error", err)
		return
	}

	notification := &domain.Notification{
		UserID:  userID,
		Type:    typ,
		Message: message,
	}
	notification.ID = notificationID
	notification.InitTimestamps()

	if err := s.store.Notifications.Create(ctx, notificationID, notification); err != nil {
		s.logger.Warn("failed to store notification",
			"user_id", userID,
			"type", typ,
			"error", err,
		)
		return
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Warn("failed to load settings for desktop bridge", "error", err)
		return
	}
	if !settings.Notifications {
		return
	}
	if err := s.desktop.Notify("SocialSphere", message); err != nil {
		s.logger.Warn("failed to send desktop notification", "error", err)
	}
}
