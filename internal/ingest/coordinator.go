// Package ingest coordinates the upload pipeline: persist the file, record
// it in the registry, hand it to the indexing collaborator and merge the
// results into one response.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"assistgen-gateway/internal/models"
	"assistgen-gateway/internal/repository"
	"assistgen-gateway/internal/storage"
)

// Failure classes the upload handler maps to distinct status codes.
var (
	ErrNoIndexer = errors.New("indexing service not configured")
	ErrStorage   = errors.New("storage failure")
	ErrIndexing  = errors.New("indexing failure")
)

// Indexer is the collaborator that turns a stored upload into a vector
// index. In-process it is the index service; with workflows enabled it is
// the temporal client.
type Indexer interface {
	IndexDocument(ctx context.Context, doc models.UploadedFile) (*models.IngestionResult, error)
}

type Coordinator struct {
	store   storage.Store
	indexer Indexer
	repo    repository.Repository
	logger  zerolog.Logger
}

func NewCoordinator(store storage.Store, indexer Indexer, repo repository.Repository, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		store:   store,
		indexer: indexer,
		repo:    repo,
		logger:  logger,
	}
}

// Ingest runs the full pipeline for one uploaded file. File identity in the
// response always comes from the stored file, never from the indexer. When
// indexing fails the stored file and its registry row are kept, marked
// failed, so the upload can be diagnosed and retried.
func (co *Coordinator) Ingest(ctx context.Context, file *multipart.FileHeader) (*models.UploadResponse, error) {
	if co.indexer == nil {
		return nil, ErrNoIndexer
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening upload: %v", ErrStorage, err)
	}
	defer src.Close()

	name := storedName(file.Filename)
	path, err := co.store.Save(ctx, name, src, file.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	// Size and type come from the multipart headers, no second read.
	uploaded := models.UploadedFile{
		Filename:     name,
		OriginalName: file.Filename,
		Size:         file.Size,
		Type:         declaredType(file),
		Path:         path,
	}

	doc := &models.Document{
		ID:           uuid.New().String(),
		Filename:     name,
		OriginalName: file.Filename,
		FileSize:     file.Size,
		MimeType:     uploaded.Type,
		StoragePath:  path,
		Status:       models.StatusPending,
		CreatedAt:    time.Now(),
	}
	if err := co.repo.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to register document: %w", err)
	}

	co.logger.Info().
		Str("document_id", doc.ID).
		Str("filename", name).
		Int64("size", file.Size).
		Msg("Stored upload")

	result, err := co.indexer.IndexDocument(ctx, uploaded)
	if err != nil {
		if uerr := co.repo.UpdateDocumentStatus(ctx, doc.ID, models.StatusFailed, err.Error()); uerr != nil {
			co.logger.Error().Err(uerr).Str("document_id", doc.ID).Msg("Failed to record indexing failure")
		}
		// Double wrap keeps the indexer's typed errors visible to callers.
		return nil, fmt.Errorf("%w: %w", ErrIndexing, err)
	}

	updates := map[string]interface{}{
		"index_id":    result.IndexID,
		"chunk_count": result.ChunkCount,
		"status":      models.StatusIndexed,
		"indexed_at":  time.Now(),
	}
	if err := co.repo.UpdateDocument(ctx, doc.ID, updates); err != nil {
		return nil, fmt.Errorf("failed to update document record: %w", err)
	}

	co.logger.Info().
		Str("document_id", doc.ID).
		Str("index_id", result.IndexID).
		Int("chunks", result.ChunkCount).
		Msg("Ingested document")

	return &models.UploadResponse{UploadedFile: uploaded, IngestionResult: *result}, nil
}

// storedName builds a collision-free name: upload time, a random prefix and
// the sanitized original name, so concurrent uploads of the same file in
// the same second cannot clash.
func storedName(original string) string {
	return fmt.Sprintf("%s_%s_%s",
		time.Now().Format("20060102_150405"),
		uuid.NewString()[:8],
		sanitizeFilename(original))
}

// sanitizeFilename strips directories and anything that is not safe in a
// stored filename.
func sanitizeFilename(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := b.String()
	if strings.Trim(out, "._-") == "" {
		return "upload"
	}
	return out
}

// declaredType returns the client-declared content type, falling back to
// the filename extension.
func declaredType(file *multipart.FileHeader) string {
	if ct := file.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	if t := mime.TypeByExtension(filepath.Ext(file.Filename)); t != "" {
		return t
	}
	return "application/octet-stream"
}
