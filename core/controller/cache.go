package controller

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Entry is a resolved controller.
type Entry struct {
	// ID identifies the live instance. Local composites are owned by this ID.
	ID string
	// Key is the canonical controller key.
	Key string
	// Instance is the controller.
	Instance any
	// Component is set once the component has been created.
	Component Component
	// Cacheable entries stay in the cache after they are detached.
	Cacheable bool
	// Cached is true when this resolution reused a cached instance.
	Cached bool
}

// Cache keeps cacheable controllers and decides between create and reuse.
// At most one cached instance exists per key. Entries are never expired: they leave the
// cache only through Evict.
type Cache struct {
	factory *Factory
	deps    Dependencies
	entries map[string]*Entry
}

// NewCache creates a cache that constructs controllers through factory.
func NewCache(factory *Factory, deps Dependencies) *Cache {
	return &Cache{
		factory: factory,
		deps:    deps,
		entries: make(map[string]*Entry),
	}
}

// SetDependencies replaces the dependencies injected into new controllers.
func (c *Cache) SetDependencies(deps Dependencies) {
	c.deps = deps
}

// Resolve returns the cached controller for key, or creates a new one.
// A reused entry has Cached set and the instance is told through CacheAware.
// A new instance is wired and, if its definition is cacheable, stored.
func (c *Cache) Resolve(key string) (*Entry, error) {
	if stored, ok := c.entries[key]; ok {
		reused := *stored
		reused.Cached = true
		if ca, ok := reused.Instance.(CacheAware); ok {
			ca.SetCached(true)
		}
		return &reused, nil
	}

	def, ok := c.factory.Definition(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownController, key)
	}

	instance, err := c.factory.Create(key)
	if err != nil {
		return nil, err
	}
	wire(instance, c.deps, key)
	if ca, ok := instance.(CacheAware); ok {
		ca.SetCached(false)
	}

	entry := &Entry{
		ID:        uuid.New().String(),
		Key:       key,
		Instance:  instance,
		Cacheable: def.Cacheable,
	}
	if def.Cacheable {
		c.entries[key] = entry
	}
	return entry, nil
}

// Get returns the cached entry for key.
func (c *Cache) Get(key string) (*Entry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

// Evict removes the cached entry for key and returns it.
func (c *Cache) Evict(key string) (*Entry, bool) {
	e, ok := c.entries[key]
	if ok {
		delete(c.entries, key)
	}
	return e, ok
}

// Len returns the number of cached controllers.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Keys returns the cached keys sorted.
func (c *Cache) Keys() []string {
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
