package fetcher

import (
	"context"

	"adstxt-validator/internal/models"
)

// Service defines the interface for fetching remote supply-chain files
// External packages should use this interface, not the concrete implementations
type Service interface {
	// FetchDeclarationFile retrieves a domain's ads.txt or app-ads.txt body.
	FetchDeclarationFile(ctx context.Context, domain string, fileType models.FileType) (string, error)

	// FetchSellersJSON retrieves an authority domain's sellers.json body.
	FetchSellersJSON(ctx context.Context, domain string) (string, error)
}
