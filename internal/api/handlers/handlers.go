package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"assistgen-gateway/internal/backend"
	"assistgen-gateway/internal/index"
	"assistgen-gateway/internal/ingest"
	"assistgen-gateway/internal/models"
	"assistgen-gateway/internal/repository"
	"assistgen-gateway/internal/services"
	"assistgen-gateway/pkg/sse"
)

// IngestService stores an upload, indexes it and reports both halves.
type IngestService interface {
	Ingest(ctx context.Context, file *multipart.FileHeader) (*models.UploadResponse, error)
}

type Handlers struct {
	Factory     backend.Factory
	Coordinator IngestService
	Repository  repository.Repository
	Qdrant      services.VectorStore
	Temporal    services.WorkflowService
	Logger      zerolog.Logger
}

func NewHandlers(factory backend.Factory, coordinator IngestService, repo repository.Repository, qdrant services.VectorStore, temporal services.WorkflowService, logger zerolog.Logger) *Handlers {
	return &Handlers{
		Factory:     factory,
		Coordinator: coordinator,
		Repository:  repo,
		Qdrant:      qdrant,
		Temporal:    temporal,
		Logger:      logger,
	}
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}

// Ready reports per-dependency health. Optional dependencies that were not
// configured are skipped rather than reported as failures.
func (h *Handlers) Ready(c *gin.Context) {
	ctx := c.Request.Context()
	deps := make(map[string]string)
	ready := true

	if _, _, err := h.Repository.ListDocuments(ctx, 1, 0, ""); err != nil {
		deps["postgres"] = err.Error()
		ready = false
	} else {
		deps["postgres"] = "ok"
	}

	if h.Qdrant != nil {
		if err := h.Qdrant.HealthCheck(ctx); err != nil {
			deps["qdrant"] = err.Error()
			ready = false
		} else {
			deps["qdrant"] = "ok"
		}
	}

	if h.Temporal != nil {
		if err := h.Temporal.HealthCheck(ctx); err != nil {
			deps["temporal"] = err.Error()
			ready = false
		} else {
			deps["temporal"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, models.ReadinessResponse{
			Status:       "not_ready",
			Dependencies: deps,
		})
		return
	}

	c.JSON(http.StatusOK, models.ReadinessResponse{
		Status:       "ready",
		Dependencies: deps,
	})
}

func (h *Handlers) Chat(c *gin.Context) {
	h.streamChat(c, backend.KindChat)
}

func (h *Handlers) Reason(c *gin.Context) {
	h.streamChat(c, backend.KindReasoner)
}

func (h *Handlers) streamChat(c *gin.Context, kind backend.Kind) {
	req, ok := bindChatRequest(c)
	if !ok {
		return
	}
	h.logConversation(c.FullPath(), req.Messages)

	b, err := h.Factory.Resolve(kind)
	if err != nil {
		h.backendError(c, err)
		return
	}

	h.startStream(c, b, req.Messages)
}

func (h *Handlers) Search(c *gin.Context) {
	req, ok := bindChatRequest(c)
	if !ok {
		return
	}
	h.logConversation(c.FullPath(), req.Messages)

	b, err := h.Factory.ResolveSearch()
	if err != nil {
		h.backendError(c, err)
		return
	}

	h.startStream(c, b, req.Messages)
}

func (h *Handlers) RAGChat(c *gin.Context) {
	var req models.RAGChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "VALIDATION_ERROR",
				Message: "Invalid request format",
			},
		})
		return
	}
	h.logConversation(c.FullPath(), req.Messages)

	doc, err := h.Repository.GetDocumentByIndexID(c.Request.Context(), req.IndexID)
	if err != nil {
		h.Logger.Error().Err(err).Str("index_id", req.IndexID).Msg("Failed to look up index")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: "Failed to look up index",
			},
		})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NOT_FOUND",
				Message: "Unknown index_id",
			},
		})
		return
	}

	b, err := h.Factory.ResolveRAG(req.IndexID)
	if err != nil {
		h.backendError(c, err)
		return
	}

	h.startStream(c, b, req.Messages)
}

func (h *Handlers) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "VALIDATION_ERROR",
				Message: "No file provided",
			},
		})
		return
	}

	resp, err := h.Coordinator.Ingest(c.Request.Context(), file)
	if err != nil {
		h.ingestError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) ListDocuments(c *gin.Context) {
	limit := 50
	offset := 0
	statusFilter := c.Query("status")

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	documents, total, err := h.Repository.ListDocuments(c.Request.Context(), limit, offset, statusFilter)
	if err != nil {
		h.Logger.Error().Err(err).Msg("Failed to list documents")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: "Failed to list documents",
			},
		})
		return
	}

	docList := make([]models.Document, len(documents))
	for i, doc := range documents {
		docList[i] = *doc
	}

	c.JSON(http.StatusOK, models.DocumentListResponse{
		Documents: docList,
		Total:     total,
		Limit:     limit,
		Offset:    offset,
	})
}

func (h *Handlers) GetDocument(c *gin.Context) {
	documentID := c.Param("id")

	doc, err := h.Repository.GetDocument(c.Request.Context(), documentID)
	if err != nil {
		h.Logger.Error().Err(err).Str("document_id", documentID).Msg("Failed to get document")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: "Failed to get document",
			},
		})
		return
	}

	if doc == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NOT_FOUND",
				Message: "Document not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, doc)
}

// logConversation records a request preview. The newest non-empty message is
// truncated to 100 runes so logs stay readable.
func (h *Handlers) logConversation(route string, messages []models.ChatMessage) {
	var preview string
	for i := len(messages) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(messages[i].Content); s != "" {
			preview = s
			break
		}
	}
	if runes := []rune(preview); len(runes) > 100 {
		preview = string(runes[:100])
	}

	h.Logger.Info().
		Str("route", route).
		Int("message_count", len(messages)).
		Str("preview", preview).
		Msg("Chat request")
}

// bindChatRequest validates the conversation payload. Binding enforces a
// non-empty messages array before any backend is constructed.
func bindChatRequest(c *gin.Context) (*models.ChatRequest, bool) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "VALIDATION_ERROR",
				Message: "Invalid request format",
			},
		})
		return nil, false
	}
	return &req, true
}

func (h *Handlers) startStream(c *gin.Context, b backend.Backend, messages []models.ChatMessage) {
	events, err := b.GenerateStream(c.Request.Context(), messages)
	if err != nil {
		h.Logger.Error().Err(err).Msg("Failed to start stream")
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "UPSTREAM_ERROR",
				Message: "Failed to start stream",
			},
		})
		return
	}

	sse.Stream(c, events)
}

func (h *Handlers) backendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, backend.ErrBackendUnavailable):
		h.Logger.Warn().Err(err).Msg("Backend unavailable")
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "BACKEND_UNAVAILABLE",
				Message: "Backend is not configured",
			},
		})
	case errors.Is(err, backend.ErrUnknownKind):
		h.Logger.Error().Err(err).Msg("Unknown backend kind")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: "Unknown backend kind",
			},
		})
	default:
		h.Logger.Error().Err(err).Msg("Failed to construct backend")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: "Failed to construct backend",
			},
		})
	}
}

func (h *Handlers) ingestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ingest.ErrNoIndexer):
		h.Logger.Warn().Err(err).Msg("Upload rejected, indexing unavailable")
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "BACKEND_UNAVAILABLE",
				Message: "Indexing is not configured",
			},
		})
	case errors.Is(err, index.ErrUnsupportedType):
		c.JSON(http.StatusUnsupportedMediaType, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "UNSUPPORTED_TYPE",
				Message: "File type cannot be indexed",
			},
		})
	case errors.Is(err, index.ErrEmptyDocument):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "EMPTY_DOCUMENT",
				Message: "Document produced no indexable text",
			},
		})
	case errors.Is(err, ingest.ErrStorage):
		h.Logger.Error().Err(err).Msg("Failed to store upload")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "STORAGE_ERROR",
				Message: "Failed to store upload",
			},
		})
	case errors.Is(err, ingest.ErrIndexing):
		h.Logger.Error().Err(err).Msg("Failed to index upload")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INGESTION_ERROR",
				Message: "Failed to index upload",
			},
		})
	default:
		h.Logger.Error().Err(err).Msg("Upload failed")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: "Upload failed",
			},
		})
	}
}
