package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/socialsphere/socialsphere-app/internal/avatar"
	"github.com/socialsphere/socialsphere-app/internal/cache"
	"github.com/socialsphere/socialsphere-app/internal/config"
	"github.com/socialsphere/socialsphere-app/internal/logger"
	"github.com/socialsphere/socialsphere-app/internal/store"
)

// StoreHandle wraps the record store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the on-device record store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Data.BasePath, "records")
	db, err := store.New(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Record store initialized", "path", dbPath)
	return &StoreHandle{Store: db}, nil
}

// CacheHandle wraps the session cache with shutdown capability.
type CacheHandle struct {
	*cache.Cache
}

// Shutdown implements do.Shutdownable.
func (h *CacheHandle) Shutdown() error {
	return h.Close()
}

// ProvideCache provides the SQLite session cache.
func ProvideCache(i do.Injector) (*CacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Data.BasePath, "cache.db")
	c, err := cache.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Session cache initialized", "path", dbPath)
	return &CacheHandle{Cache: c}, nil
}

// ProvideAvatarStore provides the avatar image store.
func ProvideAvatarStore(i do.Injector) (*avatar.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return avatar.NewStore(cfg.Data.BasePath)
}
