package client

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Key identifies one cached resource, e.g. {"chat", "groups", id, "messages"}.
type Key []string

func (k Key) id() string {
	return strings.Join(k, "\x1f")
}

func (k Key) hasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

type cacheEntry struct {
	value any
	ok    bool
}

type keyState struct {
	key   Key
	gen   uint64
	entry cacheEntry
}

// QueryCache holds the last snapshot per key. A load that overlaps an
// invalidation of its key is returned to the caller but not stored.
type QueryCache struct {
	mu    sync.Mutex
	keys  map[string]*keyState
	loads singleflight.Group
}

func NewQueryCache() *QueryCache {
	return &QueryCache{keys: map[string]*keyState{}}
}

func (c *QueryCache) stateLocked(key Key) *keyState {
	id := key.id()
	st, ok := c.keys[id]
	if !ok {
		st = &keyState{key: append(Key(nil), key...)}
		c.keys[id] = st
	}
	return st
}

// Fetch returns the cached snapshot for key or loads it with fn. Concurrent
// fetches of the same key share one load. The shared load ignores any one
// caller's cancellation; each caller stops waiting when its own ctx ends.
func Fetch[T any](ctx context.Context, c *QueryCache, key Key, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	c.mu.Lock()
	st := c.stateLocked(key)
	if st.entry.ok {
		value := st.entry.value
		c.mu.Unlock()
		return value.(T), nil
	}
	gen := st.gen
	c.mu.Unlock()

	loadCtx := context.WithoutCancel(ctx)
	ch := c.loads.DoChan(key.id(), func() (any, error) {
		value, err := fn(loadCtx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if st.gen == gen {
			st.entry = cacheEntry{value: value, ok: true}
		}
		c.mu.Unlock()
		return value, nil
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Peek returns the cached snapshot without loading.
func Peek[T any](c *QueryCache, key Key) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	st, ok := c.keys[key.id()]
	if !ok || !st.entry.ok {
		return zero, false
	}
	value, ok := st.entry.value.(T)
	return value, ok
}

// Invalidate drops exactly the entry for key.
func (c *QueryCache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stateLocked(key).drop()
}

// InvalidatePrefix drops every entry whose key starts with prefix.
func (c *QueryCache) InvalidatePrefix(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, st := range c.keys {
		if st.key.hasPrefix(prefix) {
			st.drop()
		}
	}
}

func (c *QueryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, st := range c.keys {
		st.drop()
	}
}

// Len counts cached snapshots.
func (c *QueryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, st := range c.keys {
		if st.entry.ok {
			n++
		}
	}
	return n
}

func (st *keyState) drop() {
	st.entry = cacheEntry{}
	st.gen++
}
