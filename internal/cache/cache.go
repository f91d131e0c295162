// Package cache provides the TTL-bounded evaluation result cache consulted
// by the serving layer before invoking the engine.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache is a size- and TTL-bounded LRU keyed by request fingerprint.
type Cache[V any] struct {
	lru *expirable.LRU[string, V]
}

// New creates a Cache holding at most size entries, each for at most ttl.
func New[V any](size int, ttl time.Duration) *Cache[V] {
	return &Cache[V]{lru: expirable.NewLRU[string, V](size, nil, ttl)}
}

// Get returns the cached value for key, if present and unexpired.
func (c *Cache[V]) Get(key string) (V, bool) {
	return c.lru.Get(key)
}

// Set stores a value under key.
func (c *Cache[V]) Set(key string, v V) {
	c.lru.Add(key, v)
}

// Len returns the number of live entries.
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}

// Key builds a stable fingerprint of one evaluation request. Parameters are
// serialized in sorted order so map iteration never changes the key.
func Key(expression string, params map[string]float64, domain [2]float64, count int) string {
	names := make([]string, 0, len(params))
	for n := range params {
		names = append(names, n)
	}
	sort.Strings(names)

	parts := struct {
		Expression string     `json:"expression"`
		Params     [][2]any   `json:"params"`
		Domain     [2]float64 `json:"domain"`
		Count      int        `json:"count"`
	}{Expression: expression, Domain: domain, Count: count}
	for _, n := range names {
		parts.Params = append(parts.Params, [2]any{n, strconv.FormatFloat(params[n], 'g', -1, 64)})
	}

	raw, _ := json.Marshal(parts)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
