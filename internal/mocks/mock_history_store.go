package mocks

import (
	"context"

	"adstxt-validator/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockHistoryStore is a mock implementation of history.Store
type MockHistoryStore struct {
	mock.Mock
}

// Insert mocks the Insert method of history.Store
func (m *MockHistoryStore) Insert(ctx context.Context, record *models.ScanRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// ListByDomain mocks the ListByDomain method of history.Store
func (m *MockHistoryStore) ListByDomain(ctx context.Context, domain string, limit int) ([]*models.ScanRecord, error) {
	args := m.Called(ctx, domain, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ScanRecord), args.Error(1)
}
