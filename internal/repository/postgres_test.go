package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistgen-gateway/internal/models"
	"assistgen-gateway/internal/repository"
	"assistgen-gateway/internal/repository/mocks"
)

// TestDocumentRepository tests the Repository methods.
func TestDocumentRepository(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMockRepository()

	t.Run("CreateDocument_Success", func(t *testing.T) {
		doc := &models.Document{
			ID:           "test-doc-1",
			Filename:     "20240101_120000_ab12cd34_test.txt",
			OriginalName: "test.txt",
			FileSize:     1024,
			MimeType:     "text/plain",
			StoragePath:  "/uploads/20240101_120000_ab12cd34_test.txt",
			Status:       models.StatusPending,
			CreatedAt:    time.Now(),
		}

		repo.On("CreateDocument", ctx, doc).Return(nil)

		err := repo.CreateDocument(ctx, doc)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("GetDocument_Found", func(t *testing.T) {
		expectedDoc := &models.Document{
			ID:        "test-doc-1",
			Filename:  "20240101_120000_ab12cd34_test.txt",
			FileSize:  1024,
			Status:    models.StatusPending,
			CreatedAt: time.Now(),
		}

		repo.On("GetDocument", ctx, "test-doc-1").Return(expectedDoc, nil)

		doc, err := repo.GetDocument(ctx, "test-doc-1")

		require.NoError(t, err)
		assert.NotNil(t, doc)
		assert.Equal(t, "test-doc-1", doc.ID)
		repo.AssertExpectations(t)
	})

	t.Run("GetDocument_NotFound", func(t *testing.T) {
		repo.On("GetDocument", ctx, "non-existent").Return(nil, nil)

		doc, err := repo.GetDocument(ctx, "non-existent")

		require.NoError(t, err)
		assert.Nil(t, doc)
		repo.AssertExpectations(t)
	})

	t.Run("GetDocumentByIndexID_Found", func(t *testing.T) {
		expectedDoc := &models.Document{
			ID:      "test-doc-1",
			IndexID: "idx-abc",
			Status:  models.StatusIndexed,
		}

		repo.On("GetDocumentByIndexID", ctx, "idx-abc").Return(expectedDoc, nil)

		doc, err := repo.GetDocumentByIndexID(ctx, "idx-abc")

		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, "idx-abc", doc.IndexID)
		repo.AssertExpectations(t)
	})

	t.Run("GetDocumentByIndexID_NotFound", func(t *testing.T) {
		repo.On("GetDocumentByIndexID", ctx, "idx-missing").Return(nil, nil)

		doc, err := repo.GetDocumentByIndexID(ctx, "idx-missing")

		require.NoError(t, err)
		assert.Nil(t, doc)
		repo.AssertExpectations(t)
	})

	t.Run("ListDocuments_WithPagination", func(t *testing.T) {
		docs := []*models.Document{
			{ID: "doc-1", Filename: "file1.txt", Status: models.StatusPending},
			{ID: "doc-2", Filename: "file2.txt", Status: models.StatusIndexed},
		}

		repo.On("ListDocuments", ctx, 50, 0, "").Return(docs, 2, nil)

		result, total, err := repo.ListDocuments(ctx, 50, 0, "")

		require.NoError(t, err)
		assert.Len(t, result, 2)
		assert.Equal(t, 2, total)
		repo.AssertExpectations(t)
	})

	t.Run("ListDocuments_WithStatusFilter", func(t *testing.T) {
		docs := []*models.Document{
			{ID: "doc-1", Filename: "file1.txt", Status: models.StatusPending},
		}

		repo.On("ListDocuments", ctx, 50, 0, models.StatusPending).Return(docs, 1, nil)

		result, total, err := repo.ListDocuments(ctx, 50, 0, models.StatusPending)

		require.NoError(t, err)
		assert.Len(t, result, 1)
		assert.Equal(t, 1, total)
		repo.AssertExpectations(t)
	})

	t.Run("DeleteDocument_Success", func(t *testing.T) {
		repo.On("DeleteDocument", ctx, "test-doc-1").Return(nil)

		err := repo.DeleteDocument(ctx, "test-doc-1")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("UpdateDocumentStatus_Indexed", func(t *testing.T) {
		repo.On("UpdateDocumentStatus", ctx, "test-doc-1", models.StatusIndexed, "").Return(nil)

		err := repo.UpdateDocumentStatus(ctx, "test-doc-1", models.StatusIndexed, "")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("UpdateDocumentStatus_Failed", func(t *testing.T) {
		repo.On("UpdateDocumentStatus", ctx, "test-doc-1", models.StatusFailed, "error message").Return(nil)

		err := repo.UpdateDocumentStatus(ctx, "test-doc-1", models.StatusFailed, "error message")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

// TestRepositoryInterfaceCompliance ensures the mock implements all Repository methods.
func TestRepositoryInterfaceCompliance(t *testing.T) {
	var _ repository.Repository = (*mocks.MockRepository)(nil)
	t.Log("MockRepository correctly implements Repository interface")
}
