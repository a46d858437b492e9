package cache

import (
	"context"
	"sync"

	"github.com/jonathan/profile-evaluator/internal/types"
)

// MemoryCache is an in-process cache with FIFO eviction. It is safe for
// concurrent use.
type MemoryCache struct {
	capacity int
	mu       sync.RWMutex
	entries  map[string]types.EvaluationOutput
	order    []string
}

// NewMemoryCache creates a cache holding at most capacity entries; capacity
// below 1 is treated as 1
func NewMemoryCache(capacity int) *MemoryCache {
	capacity = max(capacity, 1)
	return &MemoryCache{
		capacity: capacity,
		entries:  make(map[string]types.EvaluationOutput, capacity),
		order:    make([]string, 0, capacity),
	}
}

// Get returns the cached output for key
func (c *MemoryCache) Get(_ context.Context, key string) (*types.EvaluationOutput, bool, error) {
	c.mu.RLock()
	out, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return &out, true, nil
}

// Set stores out, evicting the oldest entry when full
func (c *MemoryCache) Set(_ context.Context, key string, out *types.EvaluationOutput) error {
	if out == nil {
		return &Error{Message: "nil evaluation output"}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = *out
		return nil
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = *out
	c.order = append(c.order, key)
	return nil
}

// Len reports the number of cached entries
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
