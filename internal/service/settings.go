package service

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/socialsphere/socialsphere-app/internal/cache"
	"github.com/socialsphere/socialsphere-app/internal/domain"
	domainerrors "github.com/socialsphere/socialsphere-app/internal/errors"
)

// SettingsService persists user preferences in the session cache.
// Settings are durable: they survive logout and restarts.
type SettingsService struct {
	cache  *cache.Cache
	logger *slog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(c *cache.Cache, logger *slog.Logger) *SettingsService {
	return &SettingsService{cache: c, logger: logger}
}

// Get returns the saved settings, or the defaults when none are saved
// or the saved blob no longer parses.
func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	raw, err := s.cache.Get(ctx, cache.KeySettings)
	if err != nil {
		if domainerrors.Is(err, cache.ErrNotFound) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, fmt.Errorf("read settings: %w", err)
	}

	var settings domain.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		s.logger.Warn("saved settings unreadable, using defaults", "error", err)
		return domain.DefaultSettings(), nil
	}
	if !settings.Theme.Valid() {
		settings.Theme = domain.ThemeLight
	}
	return settings, nil
}

// Save persists the settings durably.
func (s *SettingsService) Save(ctx context.Context, settings domain.Settings) error {
	if !settings.Theme.Valid() {
		return domainerrors.Validationf("unknown theme %q", settings.Theme)
	}

	blob, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := s.cache.Set(ctx, cache.KeySettings, string(blob), cache.ScopeDurable); err != nil {
		return fmt.Errorf("store settings: %w", err)
	}
	return nil
}

// CycleTheme advances the theme to the next one in the cycle and
// saves it. Returns the new theme.
func (s *SettingsService) CycleTheme(ctx context.Context) (domain.Theme, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return "", err
	}

	settings.Theme = settings.Theme.Next()
	if err := s.Save(ctx, settings); err != nil {
		return "", err
	}

	s.logger.Debug("theme changed", "theme", settings.Theme)
	return settings.Theme, nil
}

// composerDraftID keys the single composer draft in the cache.
const composerDraftID = "composer"

// SaveDraft persists the composer draft so an unfinished post survives
// a restart.
func (s *SettingsService) SaveDraft(ctx context.Context, content string) error {
	if strings.TrimSpace(content) == "" {
		return s.ClearDraft(ctx)
	}
	return s.cache.SaveDraft(ctx, &domain.Draft{
		ID:        composerDraftID,
		Content:   content,
		LastSaved: time.Now(),
	})
}

// LoadDraft returns the saved composer draft, or "" when none exists.
func (s *SettingsService) LoadDraft(ctx context.Context) (string, error) {
	draft, err := s.cache.GetDraft(ctx, composerDraftID)
	if err != nil {
		if domainerrors.Is(err, cache.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("read draft: %w", err)
	}
	return draft.Content, nil
}

// ClearDraft removes the composer draft.
func (s *SettingsService) ClearDraft(ctx context.Context) error {
	return s.cache.DeleteDraft(ctx, composerDraftID)
}

// SetLanguage saves the interface language (BCP 47 tag).
func (s *SettingsService) SetLanguage(ctx context.Context, lang string) error {
	if lang == "" {
		return domainerrors.Validation("language cannot be empty")
	}

	settings, err := s.Get(ctx)
	if err != nil {
		return err
	}
	settings.Language = lang
	return s.Save(ctx, settings)
}
