package memory

import (
	"context"
	"sync"
	"time"
)

// PermissionCache is a process-local TTL cache for effective permissions.
// It backs the check path when the repository lives in postgres.
type PermissionCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewPermissionCache() *PermissionCache {
	return &PermissionCache{
		entries: make(map[string]cacheEntry),
	}
}

func (c *PermissionCache) Get(_ context.Context, userID string, workspaceID string, now time.Time) ([]string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(userID, workspaceID)
	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !entry.ExpiresAt.After(now) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return append([]string(nil), entry.Permissions...), true, nil
}

func (c *PermissionCache) Set(_ context.Context, userID string, workspaceID string, permissions []string, expiresAt time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey(userID, workspaceID)] = cacheEntry{
		Permissions: append([]string(nil), permissions...),
		ExpiresAt:   expiresAt.UTC(),
	}
	return nil
}

func (c *PermissionCache) Invalidate(_ context.Context, userID string, workspaceID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, cacheKey(userID, workspaceID))
	return nil
}
