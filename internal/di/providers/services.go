package providers

import (
	"github.com/samber/do/v2"

	"github.com/socialsphere/socialsphere-app/internal/auth"
	"github.com/socialsphere/socialsphere-app/internal/avatar"
	"github.com/socialsphere/socialsphere-app/internal/config"
	"github.com/socialsphere/socialsphere-app/internal/desktop"
	"github.com/socialsphere/socialsphere-app/internal/logger"
	"github.com/socialsphere/socialsphere-app/internal/service"
)

// DesktopNotifierHandle wraps the notifier with shutdown capability.
type DesktopNotifierHandle struct {
	desktop.Notifier
}

// Shutdown implements do.Shutdownable.
func (h *DesktopNotifierHandle) Shutdown() error {
	if closer, ok := h.Notifier.(*desktop.DBusNotifier); ok {
		return closer.Close()
	}
	return nil
}

// ProvideDesktopNotifier provides the D-Bus notification bridge, or a
// no-op when disabled or unavailable.
func ProvideDesktopNotifier(i do.Injector) (*DesktopNotifierHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Desktop.Notifications {
		log.Info("Desktop notifications disabled by configuration")
		return &DesktopNotifierHandle{Notifier: desktop.NoopNotifier{}}, nil
	}
	return &DesktopNotifierHandle{Notifier: desktop.NewNotifier(log.Logger)}, nil
}

// ProvideServices wires every application service.
func ProvideServices(i do.Injector) (*service.Services, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	limiter := do.MustInvoke[*LoginLimiterHandle](i)
	avatars := do.MustInvoke[*avatar.Store](i)
	notifier := do.MustInvoke[*DesktopNotifierHandle](i)

	settings := service.NewSettingsService(cacheHandle.Cache, log.Logger)
	notifications := service.NewNotificationService(storeHandle.Store, settings, notifier, log.Logger)

	return &service.Services{
		Auth:          service.NewAuthService(storeHandle.Store, cacheHandle.Cache, tokens, searchHandle.Index, limiter.KeyedRateLimiter, log.Logger),
		Posts:         service.NewPostService(storeHandle.Store, searchHandle.Index, notifications, log.Logger),
		Notifications: notifications,
		Friends:       service.NewFriendService(storeHandle.Store, notifications, log.Logger),
		Messages:      service.NewMessageService(storeHandle.Store, notifications, log.Logger),
		Settings:      settings,
		Activity:      service.NewActivityService(cacheHandle.Cache, log.Logger),
		Search:        service.NewSearchService(storeHandle.Store, searchHandle.Index, log.Logger),
		Users:         service.NewUserService(storeHandle.Store, avatars, searchHandle.Index, log.Logger),
	}, nil
}
