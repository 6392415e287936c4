package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"assistgen-gateway/internal/models"
	"assistgen-gateway/internal/services"
	"assistgen-gateway/pkg/sse"
)

const ragPrompt = "You are an assistant that answers strictly from the provided document " +
	"excerpts. If the excerpts do not contain the answer, say you do not know rather " +
	"than inventing one."

// ragBackend retrieves excerpts for the latest message, then streams a
// completion grounded in them. Retrieval happens before the stream starts.
type ragBackend struct {
	llm       services.LLMService
	retriever Retriever
	model     string
	indexID   string
	topK      int
	logger    zerolog.Logger
}

func (b *ragBackend) GenerateStream(ctx context.Context, messages []models.ChatMessage) (<-chan sse.Event, error) {
	query := lastContent(messages)
	if query == "" {
		return nil, errors.New("no query in conversation")
	}

	chunks, err := b.retriever.Retrieve(ctx, b.indexID, query, b.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}
	b.logger.Debug().Str("index_id", b.indexID).Int("chunks", len(chunks)).Msg("Retrieved document context")

	grounded := make([]models.ChatMessage, 0, len(messages)+1)
	grounded = append(grounded, models.ChatMessage{Role: "system", Content: ragContext(chunks)})
	grounded = append(grounded, messages...)
	return b.llm.StreamChat(ctx, b.model, grounded)
}

func ragContext(chunks []models.ScoredChunk) string {
	if len(chunks) == 0 {
		return ragPrompt + "\n\nNo relevant excerpts were found in the document."
	}

	var sb strings.Builder
	sb.WriteString(ragPrompt)
	sb.WriteString("\n\nDocument excerpts:\n")
	for i, chunk := range chunks {
		fmt.Fprintf(&sb, "\n[%d] %s (score %.2f)\n%s\n", i+1, chunk.Document, chunk.Score, chunk.Content)
	}
	return sb.String()
}
