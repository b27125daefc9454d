package validation

import (
	"context"

	"adstxt-validator/internal/models"
)

// Service defines the interface for validation orchestration
// External packages should use this interface, not the concrete implementations
type Service interface {
	// ValidateDomain fetches a domain's declaration file and validates it.
	ValidateDomain(ctx context.Context, domain string, fileType models.FileType) (*models.ValidationResponse, error)

	// ValidateContent validates caller-supplied file content without fetching.
	ValidateContent(ctx context.Context, content, domain string, fileType models.FileType) (*models.ValidationResponse, error)

	// ValidateDomains validates multiple domains concurrently.
	ValidateDomains(ctx context.Context, domains []string, fileType models.FileType) (*models.BatchValidationResponse, error)

	// OptimizeContent rewrites file content under the given policies.
	OptimizeContent(ctx context.Context, content, domain string, steps models.OptimizeSteps) (*models.OptimizeResult, error)
}

// Ingester populates the seller catalog for authority domains on demand.
type Ingester interface {
	Ingest(ctx context.Context, authorityDomain string) error
}
