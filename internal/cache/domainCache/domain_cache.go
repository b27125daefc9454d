package domainCache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"adstxt-validator/internal/cache"
	"adstxt-validator/internal/models"
)

// domainCache implements Service using a generic cache
type domainCache struct {
	cache cache.Service
	ttl   time.Duration
}

// New creates a new validation result cache
func New(cache cache.Service, ttl time.Duration) Service {
	return &domainCache{
		cache: cache,
		ttl:   ttl,
	}
}

// Get retrieves a validation response from the cache
func (d *domainCache) Get(ctx context.Context, domain string, fileType models.FileType) (*models.ValidationResponse, error) {
	value, err := d.cache.Get(ctx, cacheKey(domain, fileType))
	if err != nil {
		return nil, err
	}

	// Handle type conversion
	switch v := value.(type) {
	case *models.ValidationResponse:
		// Memory cache returns the actual object
		return v, nil
	case models.ValidationResponse:
		return &v, nil
	case string:
		// Redis cache returns JSON string, unmarshal it
		var response models.ValidationResponse
		if err := json.Unmarshal([]byte(v), &response); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cached validation response: %w", err)
		}
		return &response, nil
	default:
		return nil, fmt.Errorf("unexpected type in cache: %T", v)
	}
}

// Set stores a validation response in the cache
func (d *domainCache) Set(ctx context.Context, domain string, fileType models.FileType, response *models.ValidationResponse, ttl time.Duration) error {
	// Use provided TTL or default from domainCache
	cacheTTL := ttl
	if cacheTTL == 0 {
		cacheTTL = d.ttl
	}

	return d.cache.Set(ctx, cacheKey(domain, fileType), response, cacheTTL)
}

// Delete removes a validation response from the cache
func (d *domainCache) Delete(ctx context.Context, domain string, fileType models.FileType) error {
	return d.cache.Delete(ctx, cacheKey(domain, fileType))
}

func cacheKey(domain string, fileType models.FileType) string {
	return fmt.Sprintf("validation:%s:%s", domain, fileType)
}
