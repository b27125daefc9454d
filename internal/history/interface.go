package history

import (
	"context"

	"adstxt-validator/internal/models"
)

// Store persists validation scan history.
type Store interface {
	Insert(ctx context.Context, record *models.ScanRecord) error
	ListByDomain(ctx context.Context, domain string, limit int) ([]*models.ScanRecord, error)
}
