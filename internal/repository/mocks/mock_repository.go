package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"assistgen-gateway/internal/models"
	"assistgen-gateway/internal/repository"
)

// MockRepository is a mock implementation of the Repository interface.
type MockRepository struct {
	mock.Mock
}

// NewMockRepository creates a new MockRepository instance.
func NewMockRepository() *MockRepository {
	return &MockRepository{}
}

// CreateDocument mocks the CreateDocument method.
func (m *MockRepository) CreateDocument(ctx context.Context, doc *models.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

// GetDocument mocks the GetDocument method.
func (m *MockRepository) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

// GetDocumentByIndexID mocks the GetDocumentByIndexID method.
func (m *MockRepository) GetDocumentByIndexID(ctx context.Context, indexID string) (*models.Document, error) {
	args := m.Called(ctx, indexID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

// ListDocuments mocks the ListDocuments method.
func (m *MockRepository) ListDocuments(ctx context.Context, limit, offset int, statusFilter string) ([]*models.Document, int, error) {
	args := m.Called(ctx, limit, offset, statusFilter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Document), args.Int(1), args.Error(2)
}

// UpdateDocument mocks the UpdateDocument method.
func (m *MockRepository) UpdateDocument(ctx context.Context, id string, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

// UpdateDocumentStatus mocks the UpdateDocumentStatus method.
func (m *MockRepository) UpdateDocumentStatus(ctx context.Context, id, status string, errorMessage string) error {
	args := m.Called(ctx, id, status, errorMessage)
	return args.Error(0)
}

// DeleteDocument mocks the DeleteDocument method.
func (m *MockRepository) DeleteDocument(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Ensure MockRepository implements Repository interface
var _ repository.Repository = (*MockRepository)(nil)
