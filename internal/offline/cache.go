// internal/offline/cache.go
package offline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// SQLiteCache stores cache entries in the cache_entries table so cached
// assets survive restarts, the way browser caches survive reloads.
type SQLiteCache struct {
	db *sql.DB
}

func NewSQLiteCache(db *sql.DB) *SQLiteCache {
	return &SQLiteCache{db: db}
}

func (c *SQLiteCache) Put(ctx context.Context, cacheName, path string, resp Response) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO cache_entries (cache_name, path, content_type, status, body, cached_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(cache_name, path) DO UPDATE SET
			content_type = excluded.content_type,
			status = excluded.status,
			body = excluded.body,
			cached_at = CURRENT_TIMESTAMP`,
		cacheName, path, resp.ContentType, resp.Status, resp.Body)
	if err != nil {
		return fmt.Errorf("cache put %s %s: %w", cacheName, path, err)
	}
	return nil
}

func (c *SQLiteCache) Match(ctx context.Context, cacheName, path string) (Response, bool) {
	var resp Response
	err := c.db.QueryRowContext(ctx,
		`SELECT content_type, status, body FROM cache_entries WHERE cache_name = ? AND path = ?`,
		cacheName, path).Scan(&resp.ContentType, &resp.Status, &resp.Body)
	if err != nil {
		// Fail-soft: a broken cache looks like a miss.
		return Response{}, false
	}
	return resp, true
}

func (c *SQLiteCache) DropOtherCaches(ctx context.Context, keep []string) error {
	if len(keep) == 0 {
		_, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries`)
		return err
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keep)), ",")
	args := make([]any, len(keep))
	for i, name := range keep {
		args[i] = name
	}
	_, err := c.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE cache_name NOT IN (`+placeholders+`)`, args...)
	return err
}

// MemoryCache is the in-process CacheStorage used by tests.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]Response

	// FailPuts makes every Put fail, for exercising degraded-write paths.
	FailPuts bool
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]Response)}
}

func memKey(cacheName, path string) string {
	return cacheName + "\x00" + path
}

func (c *MemoryCache) Put(ctx context.Context, cacheName, path string, resp Response) error {
	if c.FailPuts {
		return errors.New("cache write refused")
	}
	c.mu.Lock()
	c.entries[memKey(cacheName, path)] = resp
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Match(ctx context.Context, cacheName, path string) (Response, bool) {
	c.mu.RLock()
	resp, ok := c.entries[memKey(cacheName, path)]
	c.mu.RUnlock()
	return resp, ok
}

func (c *MemoryCache) DropOtherCaches(ctx context.Context, keep []string) error {
	kept := make(map[string]bool, len(keep))
	for _, name := range keep {
		kept[name] = true
	}
	c.mu.Lock()
	for key := range c.entries {
		name := key[:strings.Index(key, "\x00")]
		if !kept[name] {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
	return nil
}
