package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/socialsphere/socialsphere-app/internal/config"
	"github.com/socialsphere/socialsphere-app/internal/logger"
	"github.com/socialsphere/socialsphere-app/internal/router"
	"github.com/socialsphere/socialsphere-app/internal/service"
	"github.com/socialsphere/socialsphere-app/internal/state"
	"github.com/socialsphere/socialsphere-app/internal/tasks"
	"github.com/socialsphere/socialsphere-app/internal/view"
)

// StateAppHandle wraps the state hub with shutdown capability.
type StateAppHandle struct {
	*state.App
}

// Shutdown implements do.Shutdownable.
func (h *StateAppHandle) Shutdown() error {
	h.App.Shutdown()
	return nil
}

// ProvideStateApp provides the shared application state hub.
func ProvideStateApp(i do.Injector) (*StateAppHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return &StateAppHandle{App: state.NewApp(log.Logger)}, nil
}

// ProvideBinder provides the region binder that render output lands in.
func ProvideBinder(i do.Injector) (*view.Binder, error) {
	return view.NewBinder(), nil
}

// ProvideRenderer provides the template renderer. Construction fails
// fast when a template or region binding is missing.
func ProvideRenderer(i do.Injector) (*view.Renderer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	binder := do.MustInvoke[*view.Binder](i)

	return view.NewRenderer(binder, cfg.Locale.Language, log.Logger)
}

// RouterHandle wraps the running event router with shutdown capability.
type RouterHandle struct {
	*router.Router
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *RouterHandle) Shutdown() error {
	h.cancel()
	return nil
}

// ProvideRouter provides the event router, already running.
func ProvideRouter(i do.Injector) (*RouterHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)
	services := do.MustInvoke[*service.Services](i)
	appHandle := do.MustInvoke[*StateAppHandle](i)
	renderer := do.MustInvoke[*view.Renderer](i)

	r := router.New(services, appHandle.App, renderer, log.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := r.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("Event router stopped", "error", err)
		}
	}()

	log.Info("Event router started")
	return &RouterHandle{Router: r, cancel: cancel}, nil
}

// TaskRunnerHandle wraps the periodic task runner with shutdown
// capability.
type TaskRunnerHandle struct {
	*tasks.Runner
}

// Shutdown implements do.Shutdownable.
func (h *TaskRunnerHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideTaskRunner provides the periodic task runner, already started.
func ProvideTaskRunner(i do.Injector) (*TaskRunnerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	routerHandle := do.MustInvoke[*RouterHandle](i)

	runner := tasks.NewRunner(log.Logger)
	runner.Add(tasks.Job{
		Name:     "notification-poll",
		Interval: cfg.Tasks.NotificationPollInterval,
		Fn:       routerHandle.RefreshNotifications,
	})
	runner.Add(tasks.Job{
		Name:       "activity-refresh",
		Interval:   cfg.Tasks.ActivityRefreshInterval,
		RunOnStart: true,
		Fn:         routerHandle.RefreshActivities,
	})
	runner.Add(tasks.Job{
		Name:       "active-users",
		Interval:   cfg.Tasks.ActiveUsersInterval,
		RunOnStart: true,
		Fn:         routerHandle.RefreshActiveUsers,
	})
	runner.Add(tasks.Job{
		Name:     "draft-autosave",
		Interval: cfg.Tasks.AutosaveInterval,
		Fn:       routerHandle.AutosaveDraft,
	})

	runner.Start(context.Background())
	return &TaskRunnerHandle{Runner: runner}, nil
}
