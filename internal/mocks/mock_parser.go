package mocks

import (
	"adstxt-validator/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockParser is a mock implementation of parser.Service
type MockParser struct {
	mock.Mock
}

// ParseLine mocks the ParseLine method of parser.Service
func (m *MockParser) ParseLine(line string, lineNumber int) *models.Entry {
	args := m.Called(line, lineNumber)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.Entry)
}

// ParseContent mocks the ParseContent method of parser.Service
func (m *MockParser) ParseContent(content, publisherDomain string) []*models.Entry {
	args := m.Called(content, publisherDomain)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*models.Entry)
}
