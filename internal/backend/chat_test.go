package backend_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"assistgen-gateway/internal/backend"
	"assistgen-gateway/internal/models"
	"assistgen-gateway/internal/services/mocks"
	"assistgen-gateway/pkg/sse"
)

func TestChatBackend_StreamsModelTokens(t *testing.T) {
	llm := mocks.NewMockLLMService()
	messages := []models.ChatMessage{{Role: "user", Content: "hello"}}
	llm.On("StreamChat", mock.Anything, "deepseek-chat", messages).
		Return(closedEventChan(sse.Token("hi"), sse.Token(" there")), nil)

	factory := newTestFactory(llm, nil, nil)
	b, err := factory.Resolve(backend.KindChat)
	require.NoError(t, err)

	ch, err := b.GenerateStream(context.Background(), messages)
	require.NoError(t, err)

	events := collectEvents(ch)
	require.Len(t, events, 2)
	assert.Equal(t, sse.EventToken, events[0].Type)
	assert.Equal(t, "hi", events[0].Content)
	assert.Equal(t, " there", events[1].Content)
	llm.AssertExpectations(t)
}

func TestChatBackend_ReasonerUsesReasonerModel(t *testing.T) {
	llm := mocks.NewMockLLMService()
	messages := []models.ChatMessage{{Role: "user", Content: "prove it"}}
	llm.On("StreamChat", mock.Anything, "deepseek-reasoner", messages).
		Return(closedEventChan(sse.Reasoning("thinking"), sse.Token("done")), nil)

	factory := newTestFactory(llm, nil, nil)
	b, err := factory.Resolve(backend.KindReasoner)
	require.NoError(t, err)

	ch, err := b.GenerateStream(context.Background(), messages)
	require.NoError(t, err)

	events := collectEvents(ch)
	require.Len(t, events, 2)
	assert.Equal(t, sse.EventReasoning, events[0].Type)
	llm.AssertExpectations(t)
}

func TestChatBackend_PropagatesStartFailure(t *testing.T) {
	llm := mocks.NewMockLLMService()
	llm.On("StreamChat", mock.Anything, "deepseek-chat", mock.Anything).
		Return(nil, errors.New("connection refused"))

	factory := newTestFactory(llm, nil, nil)
	b, err := factory.Resolve(backend.KindChat)
	require.NoError(t, err)

	ch, err := b.GenerateStream(context.Background(), []models.ChatMessage{{Role: "user", Content: "hi"}})

	assert.Nil(t, ch)
	assert.Error(t, err)
}
