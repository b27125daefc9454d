package mocks

import (
	"context"

	"adstxt-validator/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockCatalogStore is a mock implementation of catalog.Store
type MockCatalogStore struct {
	mock.Mock
}

// BatchGetSellers mocks the BatchGetSellers method of catalog.Store
func (m *MockCatalogStore) BatchGetSellers(ctx context.Context, authorityDomain string, sellerIDs []string) (*models.SellerLookupResult, error) {
	args := m.Called(ctx, authorityDomain, sellerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SellerLookupResult), args.Error(1)
}

// GetCacheInfo mocks the GetCacheInfo method of catalog.Store
func (m *MockCatalogStore) GetCacheInfo(ctx context.Context, domain string) (*models.CacheInfo, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CacheInfo), args.Error(1)
}

// MockIngester is a mock implementation of validation.Ingester
type MockIngester struct {
	mock.Mock
}

// Ingest mocks the Ingest method of validation.Ingester
func (m *MockIngester) Ingest(ctx context.Context, authorityDomain string) error {
	args := m.Called(ctx, authorityDomain)
	return args.Error(0)
}
