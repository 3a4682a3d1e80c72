// Package providers contains dependency injection providers for the
// SocialSphere app.
package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/socialsphere/socialsphere-app/internal/config"
	"github.com/socialsphere/socialsphere-app/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting SocialSphere",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
		"language", cfg.Locale.Language,
	)

	return log, nil
}

// ProvideSlogLogger provides the underlying slog.Logger for packages
// that take the standard type.
func ProvideSlogLogger(i do.Injector) (*slog.Logger, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return log.Logger, nil
}
