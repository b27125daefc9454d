package crosscheck

import (
	"context"

	"adstxt-validator/internal/models"
)

// Service defines the interface for cross-checking parsed entries against
// the sellers catalog
// External packages should use this interface, not the concrete implementations
type Service interface {
	// CrossCheck annotates valid records with authorization warnings derived
	// from each authority domain's sellers.json. It never fails: catalog or
	// network trouble leaves the affected records unannotated. The returned
	// list is variables first, then records; callers needing file order must
	// re-sort by line number.
	CrossCheck(ctx context.Context, publisherDomain string, entries []*models.Entry) []*models.Entry
}
