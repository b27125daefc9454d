package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"adstxt-validator/internal/cache"
	"adstxt-validator/internal/metrics"
	"adstxt-validator/internal/models"
)

// cachedStore decorates a Store with a read-through cache for batch lookups.
// The backing cache is the shared generic cache service (memory or redis).
type cachedStore struct {
	inner   Store
	cache   cache.Service
	metrics *metrics.Metrics
	ttl     time.Duration
}

// NewCachedStore wraps a store so repeated validations of the same file do
// not hit the catalog backend for every run. m may be nil.
func NewCachedStore(inner Store, c cache.Service, ttl time.Duration, m *metrics.Metrics) Store {
	return &cachedStore{inner: inner, cache: c, metrics: m, ttl: ttl}
}

// BatchGetSellers serves a cached lookup result when one exists, otherwise
// delegates and caches. Cache failures fall through to the inner store.
func (c *cachedStore) BatchGetSellers(ctx context.Context, authorityDomain string, sellerIDs []string) (*models.SellerLookupResult, error) {
	start := time.Now()
	key := lookupCacheKey(authorityDomain, sellerIDs)

	if value, err := c.cache.Get(ctx, key); err == nil {
		if result := decodeCachedResult(value); result != nil {
			result.Cache.IsCached = true
			c.metrics.ObserveCatalogLookup("cached", time.Since(start))
			return result, nil
		}
	}

	result, err := c.inner.BatchGetSellers(ctx, authorityDomain, sellerIDs)
	c.metrics.ObserveCatalogLookup("backend", time.Since(start))
	if err != nil {
		return nil, err
	}

	// Best effort; a failed cache write never fails the lookup.
	_ = c.cache.Set(ctx, key, result, c.ttl)
	return result, nil
}

// GetCacheInfo is not cached; it is already a single cheap metadata read.
func (c *cachedStore) GetCacheInfo(ctx context.Context, domain string) (*models.CacheInfo, error) {
	return c.inner.GetCacheInfo(ctx, domain)
}

func lookupCacheKey(authorityDomain string, sellerIDs []string) string {
	ids := append([]string(nil), sellerIDs...)
	sort.Strings(ids)
	h := fnv.New64a()
	h.Write([]byte(strings.Join(ids, "\x00")))
	return fmt.Sprintf("sellers:%s:%x", normalizeDomain(authorityDomain), h.Sum64())
}

func decodeCachedResult(value interface{}) *models.SellerLookupResult {
	switch v := value.(type) {
	case *models.SellerLookupResult:
		return v
	case models.SellerLookupResult:
		return &v
	case string:
		var result models.SellerLookupResult
		if err := json.Unmarshal([]byte(v), &result); err != nil {
			return nil
		}
		return &result
	default:
		return nil
	}
}
