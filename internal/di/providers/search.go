package providers

import (
	"github.com/samber/do/v2"

	"github.com/socialsphere/socialsphere-app/internal/config"
	"github.com/socialsphere/socialsphere-app/internal/logger"
	"github.com/socialsphere/socialsphere-app/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	idx, err := search.NewIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	count, err := idx.DocumentCount()
	if err == nil {
		log.Info("Search index opened", "documents", count)
	}

	return &SearchIndexHandle{Index: idx}, nil
}
