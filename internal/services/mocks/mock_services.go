package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"assistgen-gateway/internal/models"
	"assistgen-gateway/internal/services"
	"assistgen-gateway/pkg/sse"
)

// Compile-time interface checks.
var (
	_ services.LLMService       = (*MockLLMService)(nil)
	_ services.EmbeddingService = (*MockEmbeddingService)(nil)
	_ services.SearchService    = (*MockSearchService)(nil)
	_ services.VectorStore      = (*MockVectorStore)(nil)
	_ services.WorkflowService  = (*MockWorkflowService)(nil)
)

// MockLLMService is a mock implementation of LLMService.
type MockLLMService struct {
	mock.Mock
}

func NewMockLLMService() *MockLLMService {
	return &MockLLMService{}
}

func (m *MockLLMService) StreamChat(ctx context.Context, model string, messages []models.ChatMessage) (<-chan sse.Event, error) {
	args := m.Called(ctx, model, messages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan sse.Event), args.Error(1)
}

// MockEmbeddingService is a mock implementation of EmbeddingService.
type MockEmbeddingService struct {
	mock.Mock
}

func NewMockEmbeddingService() *MockEmbeddingService {
	return &MockEmbeddingService{}
}

func (m *MockEmbeddingService) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

// MockSearchService is a mock implementation of SearchService.
type MockSearchService struct {
	mock.Mock
}

func NewMockSearchService() *MockSearchService {
	return &MockSearchService{}
}

func (m *MockSearchService) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SearchResult), args.Error(1)
}

// MockVectorStore is a mock implementation of VectorStore.
type MockVectorStore struct {
	mock.Mock
}

func NewMockVectorStore() *MockVectorStore {
	return &MockVectorStore{}
}

func (m *MockVectorStore) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	args := m.Called(ctx, vectorSize)
	return args.Error(0)
}

func (m *MockVectorStore) UpsertChunks(ctx context.Context, points []models.ChunkPoint) error {
	args := m.Called(ctx, points)
	return args.Error(0)
}

func (m *MockVectorStore) SearchChunks(ctx context.Context, indexID string, vector []float32, limit uint64) ([]models.ScoredChunk, error) {
	args := m.Called(ctx, indexID, vector, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ScoredChunk), args.Error(1)
}

func (m *MockVectorStore) DeleteIndexVectors(ctx context.Context, indexID string) error {
	args := m.Called(ctx, indexID)
	return args.Error(0)
}

func (m *MockVectorStore) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockVectorStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockWorkflowService is a mock implementation of WorkflowService.
type MockWorkflowService struct {
	mock.Mock
}

func NewMockWorkflowService() *MockWorkflowService {
	return &MockWorkflowService{}
}

func (m *MockWorkflowService) IndexDocument(ctx context.Context, doc models.UploadedFile) (*models.IngestionResult, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.IngestionResult), args.Error(1)
}

func (m *MockWorkflowService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockWorkflowService) Close() {
	m.Called()
}
