package index

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"assistgen-gateway/internal/models"
	"assistgen-gateway/internal/services"
	"assistgen-gateway/internal/storage"
)

const upsertBatchSize = 100

// ErrEmptyDocument is returned when a document yields no indexable text.
var ErrEmptyDocument = errors.New("document produced no indexable text")

// Service builds vector indexes from stored uploads and answers retrieval
// queries against them. Each document gets its own index ID; chunks of
// different documents share one collection, separated by payload filters.
type Service struct {
	store    storage.Store
	embedder services.EmbeddingService
	vectors  services.VectorStore
	splitter Splitter
	logger   zerolog.Logger
}

func NewService(store storage.Store, embedder services.EmbeddingService, vectors services.VectorStore, splitter Splitter, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		embedder: embedder,
		vectors:  vectors,
		splitter: splitter,
		logger:   logger,
	}
}

// IndexDocument extracts, chunks and embeds a stored upload, then writes the
// chunks to the vector store under a fresh index ID. A failed write rolls
// back already-written chunks so no half-indexed document is retrievable.
func (s *Service) IndexDocument(ctx context.Context, doc models.UploadedFile) (*models.IngestionResult, error) {
	rc, err := s.store.Open(ctx, doc.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stored file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored file: %w", err)
	}

	text, err := ExtractText(data, doc.Type, doc.OriginalName)
	if err != nil {
		return nil, err
	}

	chunks := s.splitter.Split(text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, doc.OriginalName)
	}

	vectors, err := s.embedder.Embed(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}

	indexID := uuid.New().String()
	if err := s.vectors.EnsureCollection(ctx, uint64(len(vectors[0]))); err != nil {
		return nil, err
	}

	points := make([]models.ChunkPoint, len(chunks))
	for i := range chunks {
		points[i] = models.ChunkPoint{
			ID:         uuid.New().String(),
			IndexID:    indexID,
			Document:   doc.OriginalName,
			ChunkIndex: i,
			Content:    chunks[i],
			Vector:     vectors[i],
		}
	}

	for start := 0; start < len(points); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(points))
		if err := s.vectors.UpsertChunks(ctx, points[start:end]); err != nil {
			if derr := s.vectors.DeleteIndexVectors(ctx, indexID); derr != nil {
				s.logger.Warn().Err(derr).Str("index_id", indexID).Msg("Failed to roll back partial index")
			}
			return nil, fmt.Errorf("failed to upsert chunks: %w", err)
		}
	}

	s.logger.Info().
		Str("index_id", indexID).
		Str("document", doc.OriginalName).
		Int("chunks", len(chunks)).
		Msg("Indexed document")

	return &models.IngestionResult{IndexID: indexID, ChunkCount: len(chunks)}, nil
}

// Retrieve embeds the query and returns the topK closest chunks of the index.
func (s *Service) Retrieve(ctx context.Context, indexID, query string, topK int) ([]models.ScoredChunk, error) {
	if topK <= 0 {
		topK = 5
	}

	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, errors.New("embedding API returned no vector for query")
	}

	return s.vectors.SearchChunks(ctx, indexID, vectors[0], uint64(topK))
}
