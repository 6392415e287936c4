package backend

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"assistgen-gateway/internal/config"
	"assistgen-gateway/internal/services"
)

// StandardFactory builds backends from the services wired at startup.
// Model-backed kinds are cached after first construction; search and RAG
// backends are cheap per-request structs.
type StandardFactory struct {
	llm       services.LLMService
	search    services.SearchService
	retriever Retriever
	chatModel string
	reasoner  string
	topK      int
	logger    zerolog.Logger

	mu           sync.Mutex
	cache        map[Kind]Backend
	constructors map[Kind]func() (Backend, error)
}

// NewFactory wires the factory. Any service may be nil; resolving a backend
// that needs a missing service fails with ErrBackendUnavailable.
func NewFactory(llm services.LLMService, search services.SearchService, retriever Retriever, llmCfg *config.LLMConfig, idxCfg *config.IndexConfig, logger zerolog.Logger) *StandardFactory {
	f := &StandardFactory{
		llm:       llm,
		search:    search,
		retriever: retriever,
		chatModel: llmCfg.ChatModel,
		reasoner:  llmCfg.ReasonerModel,
		topK:      idxCfg.TopK,
		logger:    logger,
		cache:     make(map[Kind]Backend),
	}
	f.constructors = map[Kind]func() (Backend, error){
		KindChat:     func() (Backend, error) { return f.newChat(f.chatModel) },
		KindReasoner: func() (Backend, error) { return f.newChat(f.reasoner) },
	}
	return f
}

// Resolve returns the backend for a supported kind, constructing it on
// first use.
func (f *StandardFactory) Resolve(kind Kind) (Backend, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if b, ok := f.cache[kind]; ok {
		return b, nil
	}

	ctor, ok := f.constructors[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	b, err := ctor()
	if err != nil {
		return nil, err
	}
	f.cache[kind] = b

	f.logger.Debug().Str("kind", string(kind)).Msg("Constructed backend")
	return b, nil
}

// ResolveSearch returns a backend that grounds answers in web results.
func (f *StandardFactory) ResolveSearch() (Backend, error) {
	if f.llm == nil {
		return nil, fmt.Errorf("%w: LLM client not configured", ErrBackendUnavailable)
	}
	if f.search == nil {
		return nil, fmt.Errorf("%w: search client not configured", ErrBackendUnavailable)
	}
	return &searchBackend{
		llm:    f.llm,
		search: f.search,
		model:  f.chatModel,
		logger: f.logger,
	}, nil
}

// ResolveRAG returns a backend that grounds answers in excerpts from the
// indexed document behind indexID. Callers verify the index exists first.
func (f *StandardFactory) ResolveRAG(indexID string) (Backend, error) {
	if f.llm == nil {
		return nil, fmt.Errorf("%w: LLM client not configured", ErrBackendUnavailable)
	}
	if f.retriever == nil {
		return nil, fmt.Errorf("%w: retrieval services not configured", ErrBackendUnavailable)
	}
	return &ragBackend{
		llm:       f.llm,
		retriever: f.retriever,
		model:     f.chatModel,
		indexID:   indexID,
		topK:      f.topK,
		logger:    f.logger,
	}, nil
}

func (f *StandardFactory) newChat(model string) (Backend, error) {
	if f.llm == nil {
		return nil, fmt.Errorf("%w: LLM client not configured", ErrBackendUnavailable)
	}
	return &chatBackend{llm: f.llm, model: model}, nil
}
