// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/0xngmi/nft-collateral/metrics"
)

var metricCacheHitMiss = metrics.LazyLoadCounterVec("cache_hit_miss_count", []string{"type", "event"})

// LRU is a typed, size bounded cache over golang-lru. Lookups are counted
// under its name in cache_hit_miss_count.
type LRU[K comparable, V any] struct {
	cache      *lru.Cache
	hit, miss  atomic.Int64
	hitLabels  map[string]string
	missLabels map[string]string
}

// NewLRU creates a LRU cache instance.
// maxSize should be > 0, or an error returned.
func NewLRU[K comparable, V any](name string, maxSize int) (*LRU[K, V], error) {
	cache, err := lru.New(maxSize)
	if err != nil {
		return nil, errors.Wrapf(err, "new %s lru", name)
	}
	return &LRU[K, V]{
		cache:      cache,
		hitLabels:  map[string]string{"type": name, "event": "hit"},
		missLabels: map[string]string{"type": name, "event": "miss"},
	}, nil
}

// MustNewLRU is NewLRU that panics on error.
func MustNewLRU[K comparable, V any](name string, maxSize int) *LRU[K, V] {
	c, err := NewLRU[K, V](name, maxSize)
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns the cached value for key.
func (l *LRU[K, V]) Get(key K) (V, bool) {
	if v, ok := l.cache.Get(key); ok {
		l.hit.Add(1)
		metricCacheHitMiss().AddWithLabel(1, l.hitLabels)
		return v.(V), true
	}
	l.miss.Add(1)
	metricCacheHitMiss().AddWithLabel(1, l.missLabels)
	var zero V
	return zero, false
}

// Add adds or replaces the value for key.
func (l *LRU[K, V]) Add(key K, value V) {
	l.cache.Add(key, value)
}

// Remove evicts key.
func (l *LRU[K, V]) Remove(key K) {
	l.cache.Remove(key)
}

// Len returns the number of cached entries.
func (l *LRU[K, V]) Len() int {
	return l.cache.Len()
}

// Purge clears the cache.
func (l *LRU[K, V]) Purge() {
	l.cache.Purge()
}

// Lookups returns the number of hits and misses so far.
func (l *LRU[K, V]) Lookups() (hit, miss int64) {
	return l.hit.Load(), l.miss.Load()
}

// GetOrLoad first tries to get from cache, loads and caches on miss.
func (l *LRU[K, V]) GetOrLoad(key K, load func(K) (V, error)) (V, error) {
	if v, ok := l.Get(key); ok {
		return v, nil
	}
	v, err := load(key)
	if err != nil {
		var zero V
		return zero, err
	}
	l.Add(key, v)
	return v, nil
}
