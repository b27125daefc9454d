package mocks

import (
	"context"

	"adstxt-validator/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockFetcher is a mock implementation of fetcher.Service
type MockFetcher struct {
	mock.Mock
}

// FetchDeclarationFile mocks the FetchDeclarationFile method of fetcher.Service
func (m *MockFetcher) FetchDeclarationFile(ctx context.Context, domain string, fileType models.FileType) (string, error) {
	args := m.Called(ctx, domain, fileType)
	return args.String(0), args.Error(1)
}

// FetchSellersJSON mocks the FetchSellersJSON method of fetcher.Service
func (m *MockFetcher) FetchSellersJSON(ctx context.Context, domain string) (string, error) {
	args := m.Called(ctx, domain)
	return args.String(0), args.Error(1)
}
