package gate

import (
	"sync"

	"github.com/alexanderramin/daywise/internal/domain"
)

// Cache holds dependency tasks fetched during a session so sibling checks do
// not refetch the same id. Updates replace the whole map; a map returned by
// Snapshot is never mutated afterwards.
type Cache struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{tasks: map[string]domain.Task{}}
}

// Get returns the cached task for id.
func (c *Cache) Get(id string) (domain.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tasks[id]
	return t, ok
}

// Len returns the number of cached tasks.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tasks)
}

// Snapshot returns the current cache contents. Treat it as read-only.
func (c *Cache) Snapshot() map[string]domain.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tasks
}

// Merge adds fetched tasks, replacing the cache map wholesale.
func (c *Cache) Merge(fetched map[string]domain.Task) {
	if len(fetched) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	next := make(map[string]domain.Task, len(c.tasks)+len(fetched))
	for id, t := range c.tasks {
		next[id] = t
	}
	for id, t := range fetched {
		next[id] = t.Clone()
	}
	c.tasks = next
}

// Forget drops ids from the cache, e.g. after the caller updated those tasks.
func (c *Cache) Forget(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := make(map[string]domain.Task, len(c.tasks))
	for id, t := range c.tasks {
		next[id] = t
	}
	for _, id := range ids {
		delete(next, id)
	}
	c.tasks = next
}
