package sitemap

import "sync"

// Cache holds the result of one sitemap computation. The zero value is ready
// to use. Once a result is stored every later Get returns it unchanged.
type Cache struct {
	mu     sync.Mutex
	result *Stack
}

// Get returns the stored result, or runs compute and stores its result when
// it succeeds. Concurrent callers wait for the running computation.
func (c *Cache) Get(compute func() (*Stack, error)) (*Stack, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.result != nil {
		return c.result, nil
	}

	stack, err := compute()
	if err != nil {
		return nil, err
	}
	c.result = stack
	return stack, nil
}

// Cached reports whether a result is stored.
func (c *Cache) Cached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result != nil
}

// Reset drops the stored result.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.result = nil
	c.mu.Unlock()
}
