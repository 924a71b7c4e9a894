package container

import (
	"reflect"
	"sync"
)

// instanceCache holds one built instance per declared type. The container
// owns one for singletons; every resolution overlay layer owns an ephemeral
// one that is discarded when the call returns.
type instanceCache struct {
	instances map[reflect.Type]any
	mu        sync.RWMutex
}

func newInstanceCache() *instanceCache {
	return &instanceCache{
		instances: make(map[reflect.Type]any),
	}
}

func (c *instanceCache) get(t reflect.Type) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	instance, ok := c.instances[t]
	return instance, ok
}

func (c *instanceCache) set(t reflect.Type, instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances[t] = instance
}

// reset empties the cache. Clearing is all-or-nothing: partial invalidation
// is not supported.
func (c *instanceCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances = make(map[reflect.Type]any)
}

func (c *instanceCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.instances)
}
