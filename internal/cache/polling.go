package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"gonadarena/internal/metrics"
)

const DefaultTTL = 30 * time.Second

// ErrNoValue is returned when a fetch fails and nothing was cached before.
var ErrNoValue = errors.New("no cached value")

type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

// PollingCache keeps the last successful fetch per key. Entries younger than
// the TTL are served without fetching; on fetch failure the last known value
// is served instead of the error.
type PollingCache[K comparable, V any] struct {
	name    string
	ttl     time.Duration
	clock   clock.Clock
	log     zerolog.Logger
	mu      sync.RWMutex
	entries map[K]entry[V]
}

func New[K comparable, V any](name string, ttl time.Duration, clk clock.Clock, log zerolog.Logger) *PollingCache[K, V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clk == nil {
		clk = clock.New()
	}
	return &PollingCache[K, V]{
		name:    name,
		ttl:     ttl,
		clock:   clk,
		log:     log.With().Str("cache", name).Logger(),
		entries: make(map[K]entry[V]),
	}
}

func (c *PollingCache[K, V]) TTL() time.Duration {
	return c.ttl
}

// Get returns the value for key, calling fetch when the entry is missing or expired.
func (c *PollingCache[K, V]) Get(ctx context.Context, key K, fetch func(context.Context) (V, error)) (V, error) {
	now := c.clock.Now()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && now.Sub(e.fetchedAt) < c.ttl {
		metrics.CacheLookups.WithLabelValues(c.name, "hit").Inc()
		return e.value, nil
	}

	v, err := fetch(ctx)
	if err != nil {
		if ok {
			metrics.CacheLookups.WithLabelValues(c.name, "stale").Inc()
			c.log.Warn().Err(err).Interface("key", key).Dur("age", now.Sub(e.fetchedAt)).Msg("fetch failed, serving stale value")
			return e.value, nil
		}
		metrics.CacheLookups.WithLabelValues(c.name, "error").Inc()
		var zero V
		return zero, fmt.Errorf("%s: %w: %w", c.name, ErrNoValue, err)
	}

	metrics.CacheLookups.WithLabelValues(c.name, "miss").Inc()
	c.Set(key, v)
	return v, nil
}

func (c *PollingCache[K, V]) Set(key K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: v, fetchedAt: c.clock.Now()}
}

// Peek returns the cached value regardless of age.
func (c *PollingCache[K, V]) Peek(key K) (V, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e.value, e.fetchedAt, ok
}

// Invalidate expires the entry for key but keeps its value as a fallback.
func (c *PollingCache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		e.fetchedAt = time.Time{}
		c.entries[key] = e
	}
}

func (c *PollingCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
