package services

import (
	"context"

	"assistgen-gateway/internal/models"
	"assistgen-gateway/pkg/sse"
)

// LLMService streams chat completions from an OpenAI-compatible API.
type LLMService interface {
	// StreamChat starts a completion for the given model and returns a
	// channel of events. Token and reasoning deltas arrive in generation
	// order; a mid-stream failure is reported as a terminal error event.
	StreamChat(ctx context.Context, model string, messages []models.ChatMessage) (<-chan sse.Event, error)
}

// EmbeddingService turns text into dense vectors.
type EmbeddingService interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// SearchService performs web searches used to ground answers.
type SearchService interface {
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
}

// VectorStore persists and retrieves embedded document chunks.
type VectorStore interface {
	// EnsureCollection creates the chunk collection if it does not exist.
	EnsureCollection(ctx context.Context, vectorSize uint64) error

	// UpsertChunks writes embedded chunks to the collection.
	UpsertChunks(ctx context.Context, points []models.ChunkPoint) error

	// SearchChunks returns the closest chunks of one index to the query vector.
	SearchChunks(ctx context.Context, indexID string, vector []float32, limit uint64) ([]models.ScoredChunk, error)

	// DeleteIndexVectors removes every chunk belonging to an index.
	DeleteIndexVectors(ctx context.Context, indexID string) error

	// HealthCheck verifies the vector store is reachable.
	HealthCheck(ctx context.Context) error

	// Close closes the underlying connection.
	Close() error
}

// WorkflowService runs document indexing through a workflow engine.
type WorkflowService interface {
	// IndexDocument executes the ingest workflow and waits for its result.
	IndexDocument(ctx context.Context, doc models.UploadedFile) (*models.IngestionResult, error)

	// HealthCheck verifies the workflow service is reachable.
	HealthCheck(ctx context.Context) error

	// Close closes the workflow client connection.
	Close()
}
