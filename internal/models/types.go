package models

import "time"

// ChatMessage is a single turn of a conversation as submitted by clients.
type ChatMessage struct {
	Role    string `json:"role" binding:"required"`
	Content string `json:"content"`
}

// ChatRequest is the body accepted by the chat, reasoning and search routes.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages" binding:"required,min=1,dive"`
}

// RAGChatRequest is the body accepted by the retrieval-augmented chat route.
type RAGChatRequest struct {
	Messages []ChatMessage `json:"messages" binding:"required,min=1,dive"`
	IndexID  string        `json:"index_id" binding:"required"`
}

// UploadedFile describes a stored upload. Size and Type are taken from the
// multipart headers at ingestion time, never from a second read of the file.
type UploadedFile struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
	Type         string `json:"type"`
	Path         string `json:"path"`
}

// IngestionResult is what the indexing collaborator reports back for a
// successfully indexed document.
type IngestionResult struct {
	IndexID    string `json:"index_id"`
	ChunkCount int    `json:"chunk_count"`
}

// UploadResponse merges the stored-file identity with the indexing outcome.
// The embedded UploadedFile fields are authoritative for file identity.
type UploadResponse struct {
	UploadedFile
	IngestionResult
}

// Document is the registry row tracking an upload through its lifecycle.
type Document struct {
	ID           string     `json:"id"`
	IndexID      string     `json:"index_id,omitempty"`
	Filename     string     `json:"filename"`
	OriginalName string     `json:"original_name"`
	FileSize     int64      `json:"file_size"`
	MimeType     string     `json:"mime_type"`
	StoragePath  string     `json:"storage_path"`
	ChunkCount   int        `json:"chunk_count"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	IndexedAt    *time.Time `json:"indexed_at,omitempty"`
}

// Document lifecycle states.
const (
	StatusPending = "pending"
	StatusIndexed = "indexed"
	StatusFailed  = "failed"
)

// DocumentListResponse is the paginated document listing.
type DocumentListResponse struct {
	Documents []Document `json:"documents"`
	Total     int        `json:"total"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}

// SearchResult is a single web search hit used to ground answers.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// ScoredChunk is a retrieved document excerpt with its similarity score.
type ScoredChunk struct {
	Content  string  `json:"content"`
	Document string  `json:"document"`
	Score    float32 `json:"score"`
}

// ChunkPoint is one embedded chunk ready to be written to the vector store.
type ChunkPoint struct {
	ID         string
	IndexID    string
	Document   string
	ChunkIndex int
	Content    string
	Vector     []float32
}

// ErrorResponse is the envelope returned for all non-streaming errors.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human message.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadinessResponse reports per-dependency health for the readiness probe.
type ReadinessResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}
