package mocks

import (
	"context"

	"adstxt-validator/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockValidationService is a mock implementation of validation.Service
type MockValidationService struct {
	mock.Mock
}

// ValidateDomain mocks the ValidateDomain method of validation.Service
func (m *MockValidationService) ValidateDomain(ctx context.Context, domain string, fileType models.FileType) (*models.ValidationResponse, error) {
	args := m.Called(ctx, domain, fileType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ValidationResponse), args.Error(1)
}

// ValidateContent mocks the ValidateContent method of validation.Service
func (m *MockValidationService) ValidateContent(ctx context.Context, content, domain string, fileType models.FileType) (*models.ValidationResponse, error) {
	args := m.Called(ctx, content, domain, fileType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ValidationResponse), args.Error(1)
}

// ValidateDomains mocks the ValidateDomains method of validation.Service
func (m *MockValidationService) ValidateDomains(ctx context.Context, domains []string, fileType models.FileType) (*models.BatchValidationResponse, error) {
	args := m.Called(ctx, domains, fileType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BatchValidationResponse), args.Error(1)
}

// OptimizeContent mocks the OptimizeContent method of validation.Service
func (m *MockValidationService) OptimizeContent(ctx context.Context, content, domain string, steps models.OptimizeSteps) (*models.OptimizeResult, error) {
	args := m.Called(ctx, content, domain, steps)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OptimizeResult), args.Error(1)
}
