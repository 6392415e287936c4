// Package backend puts the chat variants (plain chat, reasoning, web
// search, retrieval-augmented) behind one streaming interface so the HTTP
// layer never branches on what sits behind a route.
package backend

import (
	"context"
	"errors"
	"strings"

	"assistgen-gateway/internal/models"
	"assistgen-gateway/pkg/sse"
)

// Kind identifies a model-backed backend variant.
type Kind string

const (
	KindChat     Kind = "chat"
	KindReasoner Kind = "reasoner"
)

var (
	// ErrUnknownKind is returned for kinds outside the supported set.
	ErrUnknownKind = errors.New("unknown backend kind")

	// ErrBackendUnavailable is returned when the services a backend needs
	// were not configured at startup.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Backend produces a stream of events for a conversation. Implementations
// stop producing once ctx is cancelled. A non-nil error means no stream was
// started, so the caller can still send a plain HTTP error.
type Backend interface {
	GenerateStream(ctx context.Context, messages []models.ChatMessage) (<-chan sse.Event, error)
}

// Retriever fetches document excerpts for retrieval-augmented answers.
type Retriever interface {
	Retrieve(ctx context.Context, indexID, query string, topK int) ([]models.ScoredChunk, error)
}

// Factory resolves backends for requests. Construction failures surface
// here, before any stream starts.
type Factory interface {
	Resolve(kind Kind) (Backend, error)
	ResolveSearch() (Backend, error)
	ResolveRAG(indexID string) (Backend, error)
}

func firstContent(messages []models.ChatMessage) string {
	for _, m := range messages {
		if strings.TrimSpace(m.Content) != "" {
			return m.Content
		}
	}
	return ""
}

func lastContent(messages []models.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if strings.TrimSpace(messages[i].Content) != "" {
			return messages[i].Content
		}
	}
	return ""
}
