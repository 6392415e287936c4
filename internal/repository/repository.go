package repository

import (
	"context"

	"assistgen-gateway/internal/models"
)

// Repository is the document registry: one row per upload, tracked from
// pending through indexed or failed.
type Repository interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	GetDocumentByIndexID(ctx context.Context, indexID string) (*models.Document, error)
	ListDocuments(ctx context.Context, limit, offset int, statusFilter string) ([]*models.Document, int, error)
	UpdateDocument(ctx context.Context, id string, updates map[string]interface{}) error
	UpdateDocumentStatus(ctx context.Context, id, status string, errorMessage string) error
	DeleteDocument(ctx context.Context, id string) error
}
