package query

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Cache stores raw JSON bodies of GET requests. Entries belong to a group and
// a whole group is invalidated at once; there is no per-entry update.
type Cache interface {
	Get(ctx context.Context, group, key string) ([]byte, bool, error)
	Set(ctx context.Context, group, key string, value []byte) error
	InvalidateGroup(ctx context.Context, group string) error
}

// GroupOf is the first path segment of endpoint: "students/?page=1" belongs to "students".
func GroupOf(endpoint string) string {
	endpoint = strings.TrimLeft(endpoint, "/")
	if i := strings.IndexAny(endpoint, "/?"); i >= 0 {
		endpoint = endpoint[:i]
	}
	return endpoint
}

type memoryEntry struct {
	value   []byte
	stale   bool
	expires time.Time
}

// MemoryCache keeps entries in process. Invalidated entries are kept but
// marked stale so they are never served again.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	groups  map[string]map[string]*memoryEntry
	nowFunc func() time.Time
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache returns a cache whose entries expire after ttl; zero disables expiry
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		groups:  make(map[string]map[string]*memoryEntry),
		nowFunc: time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, group, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.groups[group][key]
	if !ok || entry.stale {
		return nil, false, nil
	}
	if !entry.expires.IsZero() && m.nowFunc().After(entry.expires) {
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (m *MemoryCache) Set(_ context.Context, group, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, ok := m.groups[group]
	if !ok {
		entries = make(map[string]*memoryEntry)
		m.groups[group] = entries
	}
	entry := &memoryEntry{value: value}
	if m.ttl > 0 {
		entry.expires = m.nowFunc().Add(m.ttl)
	}
	entries[key] = entry
	return nil
}

func (m *MemoryCache) InvalidateGroup(_ context.Context, group string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, entry := range m.groups[group] {
		entry.stale = true
	}
	return nil
}

// Sweep drops stale and expired entries
func (m *MemoryCache) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowFunc()
	removed := 0
	for group, entries := range m.groups {
		for key, entry := range entries {
			if entry.stale || (!entry.expires.IsZero() && now.After(entry.expires)) {
				delete(entries, key)
				removed++
			}
		}
		if len(entries) == 0 {
			delete(m.groups, group)
		}
	}
	return removed
}

type scopedCache struct {
	scope string
	next  Cache
}

// Scope partitions next so that groups of different scopes never share entries.
// An empty scope disables caching altogether.
func Scope(next Cache, scope string) Cache {
	if next == nil || scope == "" {
		return noopCache{}
	}
	return &scopedCache{scope: scope, next: next}
}

func (s *scopedCache) group(group string) string {
	return s.scope + "|" + group
}

func (s *scopedCache) Get(ctx context.Context, group, key string) ([]byte, bool, error) {
	return s.next.Get(ctx, s.group(group), key)
}

func (s *scopedCache) Set(ctx context.Context, group, key string, value []byte) error {
	return s.next.Set(ctx, s.group(group), key, value)
}

func (s *scopedCache) InvalidateGroup(ctx context.Context, group string) error {
	return s.next.InvalidateGroup(ctx, s.group(group))
}

type noopCache struct{}

func (noopCache) Get(context.Context, string, string) ([]byte, bool, error) { return nil, false, nil }
func (noopCache) Set(context.Context, string, string, []byte) error         { return nil }
func (noopCache) InvalidateGroup(context.Context, string) error             { return nil }
