package cache

import (
	"context"
	"database/sql"

	"github.com/socialsphere/socialsphere-app/internal/domain"
)

// scanActivity scans a sql.Row (or sql.Rows via its Scan method) into a domain.Activity.
func scanActivity(scanner interface{ Scan(dest ...any) error }) (*domain.Activity, error) {
	var (
		a            domain.Activity
		activityType string
		detail       sql.NullString
		createdAt    string
	)

	err := scanner.Scan(
		&a.ID,
		&a.UserID,
		&a.UserName,
		&activityType,
		&detail,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	a.Type = domain.ActivityType(activityType)
	if detail.Valid {
		a.Detail = detail.String
	}

	a.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// AppendActivity records an activity entry and trims the log to
// MaxActivityEntries, dropping the oldest rows.
func (c *Cache) AppendActivity(ctx context.Context, activity *domain.Activity) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO activities (id, user_id, user_name, type, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		activity.ID,
		activity.UserID,
		activity.UserName,
		string(activity.Type),
		nullString(activity.Detail),
		formatTime(activity.CreatedAt),
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM activities WHERE id NOT IN (
			SELECT id FROM activities
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)`, domain.MaxActivityEntries)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// RecentActivities returns the newest activity entries, newest first.
func (c *Cache) RecentActivities(ctx context.Context, limit int) ([]*domain.Activity, error) {
	if limit <= 0 || limit > domain.MaxActivityEntries {
		limit = domain.MaxActivityEntries
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, user_id, user_name, type, detail, created_at
		FROM activities
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return activities, nil
}

// ClearActivities removes all activity entries.
func (c *Cache) ClearActivities(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM activities`)
	return err
}
