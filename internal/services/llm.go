package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"assistgen-gateway/internal/config"
	"assistgen-gateway/internal/models"
	"assistgen-gateway/pkg/sse"
)

// ErrNotConfigured is returned by service constructors when required
// credentials are missing. Callers degrade the affected routes instead of
// refusing to start.
var ErrNotConfigured = errors.New("service not configured")

// LLMClient talks to an OpenAI-compatible chat completion API. DeepSeek
// models report chain-of-thought through the reasoning_content delta field,
// which is forwarded as reasoning events.
type LLMClient struct {
	client *openai.Client
	logger zerolog.Logger
}

func NewLLMClient(cfg *config.LLMConfig, logger zerolog.Logger) (*LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: LLM_API_KEY is empty", ErrNotConfigured)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &LLMClient{
		client: openai.NewClientWithConfig(clientCfg),
		logger: logger,
	}, nil
}

// StreamChat opens a completion stream and forwards deltas as events. The
// returned channel is closed when the model finishes, the stream fails, or
// ctx is cancelled. A non-nil error means the stream never started.
func (c *LLMClient) StreamChat(ctx context.Context, model string, messages []models.ChatMessage) (<-chan sse.Event, error) {
	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: toOpenAIMessages(messages),
		Stream:   true,
	}

	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to start completion stream: %w", err)
	}

	events := make(chan sse.Event, 100)
	go func() {
		defer close(events)
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				if ctx.Err() != nil {
					// Client went away, nobody is listening.
					return
				}
				c.logger.Error().Err(err).Str("model", model).Msg("Completion stream failed")
				send(ctx, events, sse.Error("STREAM_ERROR", err.Error()))
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}

			delta := resp.Choices[0].Delta
			if delta.ReasoningContent != "" {
				if !send(ctx, events, sse.Reasoning(delta.ReasoningContent)) {
					return
				}
			}
			if delta.Content != "" {
				if !send(ctx, events, sse.Token(delta.Content)) {
					return
				}
			}
		}
	}()

	return events, nil
}

func send(ctx context.Context, events chan<- sse.Event, event sse.Event) bool {
	select {
	case events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

func toOpenAIMessages(messages []models.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return out
}

// EmbeddingClient produces embeddings through the same API surface.
type EmbeddingClient struct {
	client    *openai.Client
	model     string
	batchSize int
	logger    zerolog.Logger
}

func NewEmbeddingClient(cfg *config.EmbeddingConfig, logger zerolog.Logger) (*EmbeddingClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: EMBEDDING_API_KEY is empty", ErrNotConfigured)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 64
	}

	return &EmbeddingClient{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		batchSize: batchSize,
		logger:    logger,
	}, nil
}

// Embed returns one vector per text, preserving input order. Inputs are
// sent in batches to stay under the API request limits.
func (c *EmbeddingClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := min(start+c.batchSize, len(texts))

		resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts[start:end],
			Model: openai.EmbeddingModel(c.model),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create embeddings: %w", err)
		}
		if len(resp.Data) != end-start {
			return nil, fmt.Errorf("embedding API returned %d vectors for %d inputs", len(resp.Data), end-start)
		}

		for _, item := range resp.Data {
			vectors = append(vectors, item.Embedding)
		}
	}

	return vectors, nil
}
