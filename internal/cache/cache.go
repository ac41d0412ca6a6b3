// Package cache provides the TTL key-value store used to memoize
// recommendation results per (track, parameter-set).
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

const (
	// KeyPrefix namespaces recommendation cache entries
	KeyPrefix = "ai_rec"
	// DefaultTTL is the lifetime of a recommendation cache entry
	DefaultTTL = time.Hour
)

// Store is the TTL cache contract the pipeline depends on. A missing or
// expired entry reports found=false, not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type keyParams struct {
	Limit           int  `json:"limit"`
	IncludeAnalysis bool `json:"includeAnalysis"`
}

// Key builds the deterministic cache key for one (track, parameter-set):
// the fixed prefix, the track id, and the first 8 hex characters of the
// SHA-256 of the canonical parameter JSON.
func Key(trackID string, limit int, includeAnalysis bool) string {
	canonical, _ := json.Marshal(keyParams{Limit: limit, IncludeAnalysis: includeAnalysis})
	sum := sha256.Sum256(canonical)
	return fmt.Sprintf("%s:%s:%s", KeyPrefix, trackID, hex.EncodeToString(sum[:])[:8])
}

// TTLStore is an in-process Store backed by ttlcache with per-entry TTLs.
type TTLStore struct {
	inner *ttlcache.Cache[string, string]
}

// NewTTLStore creates a TTLStore and starts its expiry loop.
func NewTTLStore() *TTLStore {
	inner := ttlcache.New[string, string](
		ttlcache.WithTTL[string, string](DefaultTTL),
		ttlcache.WithDisableTouchOnHit[string, string](),
	)
	go inner.Start()
	return &TTLStore{inner: inner}
}

// Get returns the cached value for key, if present and not expired.
func (s *TTLStore) Get(_ context.Context, key string) (string, bool, error) {
	item := s.inner.Get(key)
	if item == nil {
		return "", false, nil
	}
	return item.Value(), true, nil
}

// Set stores value under key for ttl. A non-positive ttl falls back to the
// default entry lifetime.
func (s *TTLStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.inner.Set(key, value, ttl)
	return nil
}

// Stop terminates the expiry loop.
func (s *TTLStore) Stop() {
	s.inner.Stop()
}
