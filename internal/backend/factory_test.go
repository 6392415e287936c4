package backend_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"assistgen-gateway/internal/backend"
	"assistgen-gateway/internal/config"
	"assistgen-gateway/internal/models"
	"assistgen-gateway/internal/services"
	"assistgen-gateway/internal/services/mocks"
	"assistgen-gateway/pkg/sse"
)

// closedEventChan returns a pre-filled, closed stream with the receive-only
// type the LLM mock hands back.
func closedEventChan(events ...sse.Event) <-chan sse.Event {
	ch := make(chan sse.Event, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	return ch
}

func collectEvents(ch <-chan sse.Event) []sse.Event {
	var events []sse.Event
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

type mockRetriever struct {
	mock.Mock
}

func (m *mockRetriever) Retrieve(ctx context.Context, indexID, query string, topK int) ([]models.ScoredChunk, error) {
	args := m.Called(ctx, indexID, query, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ScoredChunk), args.Error(1)
}

func newTestFactory(llm services.LLMService, search services.SearchService, retriever backend.Retriever) *backend.StandardFactory {
	llmCfg := &config.LLMConfig{ChatModel: "deepseek-chat", ReasonerModel: "deepseek-reasoner"}
	idxCfg := &config.IndexConfig{TopK: 3}
	return backend.NewFactory(llm, search, retriever, llmCfg, idxCfg, zerolog.Nop())
}

func TestFactory_Resolve_KnownKinds(t *testing.T) {
	factory := newTestFactory(mocks.NewMockLLMService(), nil, nil)

	for _, kind := range []backend.Kind{backend.KindChat, backend.KindReasoner} {
		b, err := factory.Resolve(kind)
		require.NoError(t, err, "kind %q", kind)
		assert.NotNil(t, b, "kind %q", kind)
	}
}

func TestFactory_Resolve_CachesBackend(t *testing.T) {
	factory := newTestFactory(mocks.NewMockLLMService(), nil, nil)

	first, err := factory.Resolve(backend.KindChat)
	require.NoError(t, err)
	second, err := factory.Resolve(backend.KindChat)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestFactory_Resolve_UnknownKind(t *testing.T) {
	factory := newTestFactory(mocks.NewMockLLMService(), nil, nil)

	b, err := factory.Resolve(backend.Kind("oracle"))

	assert.Nil(t, b)
	assert.ErrorIs(t, err, backend.ErrUnknownKind)
}

func TestFactory_Resolve_MissingLLM(t *testing.T) {
	factory := newTestFactory(nil, nil, nil)

	b, err := factory.Resolve(backend.KindChat)

	assert.Nil(t, b)
	assert.ErrorIs(t, err, backend.ErrBackendUnavailable)
}

func TestFactory_ResolveSearch_Success(t *testing.T) {
	factory := newTestFactory(mocks.NewMockLLMService(), mocks.NewMockSearchService(), nil)

	b, err := factory.ResolveSearch()

	require.NoError(t, err)
	assert.NotNil(t, b)
}

func TestFactory_ResolveSearch_MissingSearch(t *testing.T) {
	factory := newTestFactory(mocks.NewMockLLMService(), nil, nil)

	b, err := factory.ResolveSearch()

	assert.Nil(t, b)
	assert.ErrorIs(t, err, backend.ErrBackendUnavailable)
}

func TestFactory_ResolveRAG_Success(t *testing.T) {
	factory := newTestFactory(mocks.NewMockLLMService(), nil, &mockRetriever{})

	b, err := factory.ResolveRAG("idx-1")

	require.NoError(t, err)
	assert.NotNil(t, b)
}

func TestFactory_ResolveRAG_MissingRetriever(t *testing.T) {
	factory := newTestFactory(mocks.NewMockLLMService(), nil, nil)

	b, err := factory.ResolveRAG("idx-1")

	assert.Nil(t, b)
	assert.ErrorIs(t, err, backend.ErrBackendUnavailable)
}
