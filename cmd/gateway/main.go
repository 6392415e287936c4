package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"assistgen-gateway/internal/api/handlers"
	"assistgen-gateway/internal/api/middleware"
	"assistgen-gateway/internal/api/routes"
	"assistgen-gateway/internal/backend"
	"assistgen-gateway/internal/config"
	"assistgen-gateway/internal/index"
	"assistgen-gateway/internal/ingest"
	"assistgen-gateway/internal/repository"
	"assistgen-gateway/internal/services"
	"assistgen-gateway/internal/storage"
)

func main() {
	// Load .env before the config reads the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	logger.Info().Msg("Starting AssistGen Gateway")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	repo, err := repository.NewPostgresRepository(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize repository: %v", err)
	}
	defer repo.Close()

	store, err := storage.NewFromConfig(context.Background(), &cfg.Storage, logger)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Unconfigured services stay nil; their routes answer 503 while the
	// rest of the API keeps working.
	var llm services.LLMService
	if client, err := services.NewLLMClient(&cfg.LLM, logger); err != nil {
		logger.Warn().Err(err).Msg("LLM client disabled")
	} else {
		llm = client
	}

	var embedder services.EmbeddingService
	if client, err := services.NewEmbeddingClient(&cfg.Embedding, logger); err != nil {
		logger.Warn().Err(err).Msg("Embedding client disabled")
	} else {
		embedder = client
	}

	searchClient := services.NewSearchClient(&cfg.Search, logger)

	var vectors services.VectorStore
	qdrantClient, err := services.NewQdrantClient(&cfg.Qdrant, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Qdrant client disabled")
	} else {
		vectors = qdrantClient
		defer qdrantClient.Close()
	}

	var retriever backend.Retriever
	var indexer ingest.Indexer
	if embedder != nil && vectors != nil {
		chunker, err := index.NewChunker(cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)
		if err != nil {
			logger.Warn().Err(err).Msg("Chunker unavailable, indexing disabled")
		} else {
			indexService := index.NewService(store, embedder, vectors, chunker, logger)
			retriever = indexService
			indexer = indexService
		}
	} else {
		logger.Warn().Msg("Indexing disabled, embedding or vector store not configured")
	}

	var workflowSvc services.WorkflowService
	if cfg.Temporal.Enabled {
		temporalClient, err := services.NewTemporalClient(&cfg.Temporal, logger)
		if err != nil {
			log.Fatalf("Failed to create Temporal client: %v", err)
		}
		defer temporalClient.Close()
		workflowSvc = temporalClient
		// Ingestion goes through the durable workflow instead of in-process
		indexer = temporalClient
	}

	coordinator := ingest.NewCoordinator(store, indexer, repo, logger)
	factory := backend.NewFactory(llm, searchClient, retriever, &cfg.LLM, &cfg.Index, logger)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS())

	h := handlers.NewHandlers(factory, coordinator, repo, vectors, workflowSvc, logger)
	routes.SetupRoutes(router, h)

	srv := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     router,
		ReadTimeout: cfg.Server.ReadTimeout,
		// No WriteTimeout, SSE responses stay open as long as the model talks
		MaxHeaderBytes: 1 << 20,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Server shutting down...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}
