package ingest_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"assistgen-gateway/internal/ingest"
	"assistgen-gateway/internal/models"
	repomocks "assistgen-gateway/internal/repository/mocks"
	"assistgen-gateway/internal/storage"
)

type mockIndexer struct {
	mock.Mock
}

func (m *mockIndexer) IndexDocument(ctx context.Context, doc models.UploadedFile) (*models.IngestionResult, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.IngestionResult), args.Error(1)
}

func makeFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	_, fh, err := req.FormFile("file")
	require.NoError(t, err)
	return fh
}

func newTestCoordinator(t *testing.T) (*ingest.Coordinator, *mockIndexer, *repomocks.MockRepository) {
	t.Helper()
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	indexer := &mockIndexer{}
	repo := repomocks.NewMockRepository()
	return ingest.NewCoordinator(store, indexer, repo, zerolog.Nop()), indexer, repo
}

var storedNamePattern = regexp.MustCompile(`^\d{8}_\d{6}_[0-9a-f]{8}_test\.txt$`)

func TestCoordinator_Ingest_Success(t *testing.T) {
	co, indexer, repo := newTestCoordinator(t)
	content := []byte("hello world, this is an upload")
	fh := makeFileHeader(t, "test.txt", "text/plain", content)

	repo.On("CreateDocument", mock.Anything, mock.MatchedBy(func(doc *models.Document) bool {
		return doc.Status == models.StatusPending && doc.OriginalName == "test.txt"
	})).Return(nil)
	repo.On("UpdateDocument", mock.Anything, mock.AnythingOfType("string"),
		mock.MatchedBy(func(updates map[string]interface{}) bool {
			return updates["status"] == models.StatusIndexed && updates["index_id"] == "idx-123"
		})).Return(nil)

	var indexed models.UploadedFile
	indexer.On("IndexDocument", mock.Anything, mock.AnythingOfType("models.UploadedFile")).
		Run(func(args mock.Arguments) {
			indexed = args.Get(1).(models.UploadedFile)
		}).
		Return(&models.IngestionResult{IndexID: "idx-123", ChunkCount: 4}, nil)

	resp, err := co.Ingest(context.Background(), fh)
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, "test.txt", resp.OriginalName)
	assert.Equal(t, int64(len(content)), resp.Size)
	assert.Equal(t, "text/plain", resp.Type)
	assert.Regexp(t, storedNamePattern, resp.Filename)
	assert.Equal(t, "idx-123", resp.IndexID)
	assert.Equal(t, 4, resp.ChunkCount)

	// The indexer sees exactly the identity the client gets back.
	assert.Equal(t, resp.UploadedFile, indexed)

	stored, err := os.ReadFile(resp.Path)
	require.NoError(t, err)
	assert.Equal(t, content, stored)

	repo.AssertExpectations(t)
	indexer.AssertExpectations(t)
}

func TestCoordinator_Ingest_DistinctNamesForSameFile(t *testing.T) {
	co, indexer, repo := newTestCoordinator(t)
	content := []byte("same bytes")

	repo.On("CreateDocument", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpdateDocument", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	indexer.On("IndexDocument", mock.Anything, mock.Anything).
		Return(&models.IngestionResult{IndexID: "idx-1", ChunkCount: 1}, nil)

	first, err := co.Ingest(context.Background(), makeFileHeader(t, "test.txt", "text/plain", content))
	require.NoError(t, err)
	second, err := co.Ingest(context.Background(), makeFileHeader(t, "test.txt", "text/plain", content))
	require.NoError(t, err)

	assert.NotEqual(t, first.Filename, second.Filename,
		"two uploads in the same second must not collide")
	assert.FileExists(t, first.Path)
	assert.FileExists(t, second.Path)
}

func TestCoordinator_Ingest_IndexerFailureKeepsFile(t *testing.T) {
	co, indexer, repo := newTestCoordinator(t)
	fh := makeFileHeader(t, "test.txt", "text/plain", []byte("content"))

	repo.On("CreateDocument", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpdateDocumentStatus", mock.Anything, mock.AnythingOfType("string"),
		models.StatusFailed, mock.AnythingOfType("string")).Return(nil)

	var indexed models.UploadedFile
	indexer.On("IndexDocument", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			indexed = args.Get(1).(models.UploadedFile)
		}).
		Return(nil, errors.New("vector store down"))

	resp, err := co.Ingest(context.Background(), fh)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ingest.ErrIndexing)

	// The stored file survives a failed indexing run.
	assert.FileExists(t, indexed.Path)
	repo.AssertExpectations(t)
}

func TestCoordinator_Ingest_NoIndexer(t *testing.T) {
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	co := ingest.NewCoordinator(store, nil, repomocks.NewMockRepository(), zerolog.Nop())

	_, err = co.Ingest(context.Background(), makeFileHeader(t, "test.txt", "", []byte("x")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ingest.ErrNoIndexer)
}

func TestCoordinator_Ingest_SanitizesHostileFilename(t *testing.T) {
	co, indexer, repo := newTestCoordinator(t)
	fh := makeFileHeader(t, "../../etc/passwd", "text/plain", []byte("not a real passwd"))

	repo.On("CreateDocument", mock.Anything, mock.Anything).Return(nil)
	repo.On("UpdateDocument", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	indexer.On("IndexDocument", mock.Anything, mock.Anything).
		Return(&models.IngestionResult{IndexID: "idx-1", ChunkCount: 1}, nil)

	resp, err := co.Ingest(context.Background(), fh)
	require.NoError(t, err)

	assert.NotContains(t, resp.Filename, "/")
	assert.Contains(t, resp.Filename, "passwd")
	assert.FileExists(t, resp.Path)
}
