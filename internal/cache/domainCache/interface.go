package domainCache

import (
	"context"
	"time"

	"adstxt-validator/internal/models"
)

// Service defines the interface for validation result cache operations
type Service interface {
	Get(ctx context.Context, domain string, fileType models.FileType) (*models.ValidationResponse, error)
	Set(ctx context.Context, domain string, fileType models.FileType, response *models.ValidationResponse, ttl time.Duration) error
	Delete(ctx context.Context, domain string, fileType models.FileType) error
}
