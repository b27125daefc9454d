package mocks

import (
	"context"
	"time"

	"adstxt-validator/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockDomainCache is a mock implementation of domainCache.Service
type MockDomainCache struct {
	mock.Mock
}

// Get mocks the Get method of domainCache.Service
func (m *MockDomainCache) Get(ctx context.Context, domain string, fileType models.FileType) (*models.ValidationResponse, error) {
	args := m.Called(ctx, domain, fileType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ValidationResponse), args.Error(1)
}

// Set mocks the Set method of domainCache.Service
func (m *MockDomainCache) Set(ctx context.Context, domain string, fileType models.FileType, response *models.ValidationResponse, ttl time.Duration) error {
	args := m.Called(ctx, domain, fileType, response, ttl)
	return args.Error(0)
}

// Delete mocks the Delete method of domainCache.Service
func (m *MockDomainCache) Delete(ctx context.Context, domain string, fileType models.FileType) error {
	args := m.Called(ctx, domain, fileType)
	return args.Error(0)
}
