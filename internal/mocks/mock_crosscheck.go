package mocks

import (
	"context"

	"adstxt-validator/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockCrossCheck is a mock implementation of crosscheck.Service
type MockCrossCheck struct {
	mock.Mock
}

// CrossCheck mocks the CrossCheck method of crosscheck.Service
func (m *MockCrossCheck) CrossCheck(ctx context.Context, publisherDomain string, entries []*models.Entry) []*models.Entry {
	args := m.Called(ctx, publisherDomain, entries)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*models.Entry)
}
