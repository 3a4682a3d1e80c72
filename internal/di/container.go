// Package di provides dependency injection configuration for the
// SocialSphere app.
package di

import (
	"github.com/samber/do/v2"

	"github.com/socialsphere/socialsphere-app/internal/auth"
	"github.com/socialsphere/socialsphere-app/internal/avatar"
	"github.com/socialsphere/socialsphere-app/internal/config"
	"github.com/socialsphere/socialsphere-app/internal/di/providers"
	"github.com/socialsphere/socialsphere-app/internal/logger"
	"github.com/socialsphere/socialsphere-app/internal/service"
	"github.com/socialsphere/socialsphere-app/internal/view"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideCache)
	do.Provide(injector, providers.ProvideAvatarStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideLoginLimiter)

	// Desktop integration
	do.Provide(injector, providers.ProvideDesktopNotifier)

	// Business services
	do.Provide(injector, providers.ProvideServices)

	// State and view
	do.Provide(injector, providers.ProvideStateApp)
	do.Provide(injector, providers.ProvideBinder)
	do.Provide(injector, providers.ProvideRenderer)

	// Event routing and background tasks
	do.Provide(injector, providers.ProvideRouter)
	do.Provide(injector, providers.ProvideTaskRunner)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle
// management. This triggers lazy initialization of the whole graph.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.CacheHandle](injector)
	_ = do.MustInvoke[*avatar.Store](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*providers.LoginLimiterHandle](injector)
	_ = do.MustInvoke[*providers.DesktopNotifierHandle](injector)
	_ = do.MustInvoke[*service.Services](injector)
	_ = do.MustInvoke[*providers.StateAppHandle](injector)
	_ = do.MustInvoke[*view.Renderer](injector)
	_ = do.MustInvoke[*providers.RouterHandle](injector)
	_ = do.MustInvoke[*providers.TaskRunnerHandle](injector)

	return nil
}
