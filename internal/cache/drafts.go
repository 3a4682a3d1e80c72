package cache

import (
	"context"
	"database/sql"
	"errors"

	"github.com/socialsphere/socialsphere-app/internal/domain"
)

// SaveDraft inserts or replaces a composer draft.
func (c *Cache) SaveDraft(ctx context.Context, draft *domain.Draft) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO drafts (id, content, last_saved)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			last_saved = excluded.last_saved`,
		draft.ID, draft.Content, formatTime(draft.LastSaved))
	return err
}

// GetDraft retrieves a draft by ID. Returns ErrNotFound if absent.
func (c *Cache) GetDraft(ctx context.Context, id string) (*domain.Draft, error) {
	var (
		draft     domain.Draft
		lastSaved string
	)

	err := c.db.QueryRowContext(ctx,
		`SELECT id, content, last_saved FROM drafts WHERE id = ?`, id).
		Scan(&draft.ID, &draft.Content, &lastSaved)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	draft.LastSaved, err = parseTime(lastSaved)
	if err != nil {
		return nil, err
	}

	return &draft, nil
}

// DeleteDraft removes a draft. Deleting an absent draft is not an error.
func (c *Cache) DeleteDraft(ctx context.Context, id string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	return err
}
