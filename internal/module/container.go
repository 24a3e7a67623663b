package module

import (
	"fmt"
	"sync"
)

// Well-known container keys.
const (
	KeyLogger   = "logger"
	KeyDB       = "db"
	KeyCache    = "cache"
	KeyQueue    = "queue"
	KeyFootball = "footballAPI"
)

// PublicAPIKey returns the container key a module's PublicAPI is published
// under after loading.
func PublicAPIKey(moduleName string) string {
	return "module:" + moduleName
}

// Container is the process-wide service registry modules use to share
// instances without static imports of one another. Writes happen during
// the sequential loading phase; afterwards it is effectively read-only.
// There is no deletion: entries live for the process lifetime.
type Container struct {
	mu      sync.RWMutex
	entries map[string]any
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{entries: make(map[string]any)}
}

// Set stores a value under key. Last write wins.
func (c *Container) Set(key string, value any) {
	c.mu.Lock()
	c.entries[key] = value
	c.mu.Unlock()
}

// Has reports whether key is present.
func (c *Container) Has(key string) bool {
	c.mu.RLock()
	_, ok := c.entries[key]
	c.mu.RUnlock()
	return ok
}

// Get returns the value stored under key. Absence is signalled by the
// second return value, never by panicking.
func (c *Container) Get(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	return v, ok
}

// MustGet returns the value stored under key or panics. For bootstrap
// wiring where a missing entry is a programming error.
func (c *Container) MustGet(key string) any {
	v, ok := c.Get(key)
	if !ok {
		panic(fmt.Sprintf("container: no entry for key %q", key))
	}
	return v
}
