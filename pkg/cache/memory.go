package cache

import (
	"context"
	"sync"
	"time"
)

// entry holds a cached value with its expiration time.
// A zero expiresAt means the entry never expires.
type entry[V any] struct {
	expiresAt time.Time
	value     V
}

func (e entry[V]) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// memoryOptions holds Memory cache settings.
type memoryOptions struct {
	defaultTTL      time.Duration
	cleanupInterval time.Duration
}

// MemoryOption configures the in-memory cache.
type MemoryOption func(*memoryOptions)

// WithDefaultTTL sets the TTL applied when Set is called with a zero TTL.
func WithDefaultTTL(ttl time.Duration) MemoryOption {
	return func(o *memoryOptions) { o.defaultTTL = ttl }
}

// WithCleanupInterval sets how often the janitor sweeps expired entries.
// Zero disables the janitor; expired entries are then dropped lazily on Get.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) { o.cleanupInterval = d }
}

// Memory is an in-process cache with TTL-based expiration.
type Memory[V any] struct {
	items  map[string]entry[V]
	opts   memoryOptions
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

// NewMemory creates a new in-memory cache.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	o := memoryOptions{cleanupInterval: time.Minute}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Memory[V]{
		items: make(map[string]entry[V]),
		opts:  o,
		done:  make(chan struct{}),
	}
	if o.cleanupInterval > 0 {
		go m.janitor()
	}
	return m
}

// Get retrieves a value by key. Expired entries are removed on access.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	if m.closed {
		return zero, ErrClosed
	}

	e, ok := m.items[key]
	if !ok {
		return zero, ErrNotFound
	}
	if e.expired() {
		delete(m.items, key)
		return zero, ErrNotFound
	}
	return e.value, nil
}

// Set stores a value with the given TTL.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}

	e := entry[V]{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	m.items[key] = e
	return nil
}

// Delete removes a key from the cache.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.items, key)
	return nil
}

// Close stops the janitor and drops all entries.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	m.items = nil
	return nil
}

func (m *Memory[V]) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Memory[V]) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	for key, e := range m.items {
		if e.expired() {
			delete(m.items, key)
		}
	}
}
