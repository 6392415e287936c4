package backend

import (
	"context"

	"assistgen-gateway/internal/models"
	"assistgen-gateway/internal/services"
	"assistgen-gateway/pkg/sse"
)

// chatBackend forwards the conversation to a single model. The reasoning
// variant is the same backend pointed at a different model name.
type chatBackend struct {
	llm   services.LLMService
	model string
}

func (b *chatBackend) GenerateStream(ctx context.Context, messages []models.ChatMessage) (<-chan sse.Event, error) {
	return b.llm.StreamChat(ctx, b.model, messages)
}
