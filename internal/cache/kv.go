package cache

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a kv key has no value.
var ErrNotFound = errors.New("cache: key not found")

// Well-known kv keys. Everything else the service layer invents is
// fine too; these are the keys shared between packages.
const (
	KeyTheme       = "theme"
	KeyLanguage    = "language"
	KeySettings    = "settings"
	KeyCurrentUser = "current_user"
	KeyAuthToken   = "auth_token"
)

// Set stores a value under the given key and scope. Writing a key that
// already exists replaces both its value and its scope.
func (c *Cache) Set(ctx context.Context, key, value string, scope Scope) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, scope, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			scope = excluded.scope,
			updated_at = excluded.updated_at`,
		key, value, string(scope), formatTime(time.Now()))
	return err
}

// Get retrieves a value by key. Returns ErrNotFound for absent keys.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := c.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetDefault retrieves a value by key, falling back to def when absent.
func (c *Cache) GetDefault(ctx context.Context, key, def string) (string, error) {
	value, err := c.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Remove deletes a key. Removing an absent key is not an error.
func (c *Cache) Remove(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}

// ClearSession removes all session-scoped entries. Durable entries are
// untouched. Called on logout and when a non-remembered session ends.
func (c *Cache) ClearSession(ctx context.Context) error {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM kv WHERE scope = ?`, string(ScopeSession))
	if err != nil {
		return err
	}
	if c.logger != nil {
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			c.logger.Debug("Cleared session-scoped cache entries", "count", n)
		}
	}
	return nil
}
