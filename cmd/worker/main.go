package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"assistgen-gateway/internal/config"
	"assistgen-gateway/internal/index"
	"assistgen-gateway/internal/services"
	"assistgen-gateway/internal/storage"
	"assistgen-gateway/internal/workflows"
)

// The worker runs the ingestion pipeline behind the gateway's upload route.
// Unlike the gateway it cannot degrade: every dependency of the pipeline
// must be up before it polls the task queue.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	logger.Info().Msg("Starting ingestion worker")

	store, err := storage.NewFromConfig(context.Background(), &cfg.Storage, logger)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	embedder, err := services.NewEmbeddingClient(&cfg.Embedding, logger)
	if err != nil {
		log.Fatalf("Embedding client required: %v", err)
	}

	qdrantClient, err := services.NewQdrantClient(&cfg.Qdrant, logger)
	if err != nil {
		log.Fatalf("Qdrant client required: %v", err)
	}
	defer qdrantClient.Close()

	chunker, err := index.NewChunker(cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)
	if err != nil {
		log.Fatalf("Failed to initialize chunker: %v", err)
	}

	indexService := index.NewService(store, embedder, qdrantClient, chunker, logger)

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("Failed to create Temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.IngestWorkflow)
	w.RegisterActivity(&workflows.Activities{Indexer: indexService})

	logger.Info().
		Str("task_queue", cfg.Temporal.TaskQueue).
		Str("host_port", cfg.Temporal.HostPort).
		Msg("Worker polling")

	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("Worker stopped: %v", err)
	}
}
