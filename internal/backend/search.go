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

const searchPrompt = "You are a research assistant. Answer the user's question using the " +
	"numbered web results below. Cite results inline as [n]. If the results do not " +
	"cover the question, say so instead of guessing."

// searchBackend runs a web search for the opening message, then streams a
// completion grounded in the results. The search happens before the stream
// starts, so a failed search is reported as a plain error.
type searchBackend struct {
	llm    services.LLMService
	search services.SearchService
	model  string
	logger zerolog.Logger
}

func (b *searchBackend) GenerateStream(ctx context.Context, messages []models.ChatMessage) (<-chan sse.Event, error) {
	query := firstContent(messages)
	if query == "" {
		return nil, errors.New("no query in conversation")
	}

	results, err := b.search.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("web search failed: %w", err)
	}
	b.logger.Debug().Str("query", query).Int("results", len(results)).Msg("Web search completed")

	grounded := make([]models.ChatMessage, 0, len(messages)+1)
	grounded = append(grounded, models.ChatMessage{Role: "system", Content: searchContext(results)})
	grounded = append(grounded, messages...)
	return b.llm.StreamChat(ctx, b.model, grounded)
}

func searchContext(results []models.SearchResult) string {
	if len(results) == 0 {
		return searchPrompt + "\n\nNo web results were found for this query."
	}

	var sb strings.Builder
	sb.WriteString(searchPrompt)
	sb.WriteString("\n\nWeb results:\n")
	for i, r := range results {
		fmt.Fprintf(&sb, "\n[%d] %s\n%s\n%s\n", i+1, r.Title, r.Snippet, r.URL)
	}
	return sb.String()
}
