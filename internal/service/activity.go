package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/socialsphere/socialsphere-app/internal/cache"
	"github.com/socialsphere/socialsphere-app/internal/domain"
	"github.com/socialsphere/socialsphere-app/internal/id"
)

// ActivityService records the session activity trail shown in the
// sidebar. Entries live in the session cache, capped at
// domain.MaxActivityEntries.
type ActivityService struct {
	cache  *cache.Cache
	logger *slog.Logger
}

// NewActivityService creates a new activity service.
func NewActivityService(c *cache.Cache, logger *slog.Logger) *ActivityService {
	return &ActivityService{cache: c, logger: logger}
}

// Record appends one activity entry. The log is decorative, so
// failures are logged and swallowed.
func (s *ActivityService) Record(ctx context.Context, user *domain.User, typ domain.ActivityType, detail string) {
	if user == nil {
		return
	}

	activityID, err := id.Generate("act")
	if err != nil {
		s.logger.Warn("failed to generate activity ID", "error", err)
		return
	}

	activity := &domain.Activity{
		ID:        activityID,
		UserID:    user.ID,
		UserName:  user.Name(),
		Type:      typ,
		Detail:    detail,
		CreatedAt: time.Now(),
	}

	if err := s.cache.AppendActivity(ctx, activity); err != nil {
		s.logger.Warn("failed to record activity", "type", typ, "error", err)
	}
}

// Recent returns the newest activity entries, newest first.
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]*domain.Activity, error) {
	activities, err := s.cache.RecentActivities(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}
	return activities, nil
}

// Clear wipes the activity log.
func (s *ActivityService) Clear(ctx context.Context) error {
	return s.cache.ClearActivities(ctx)
}
