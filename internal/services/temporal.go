package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.temporal.io/api/workflowservice/v1"
	"go.temporal.io/sdk/client"

	"assistgen-gateway/internal/config"
	"assistgen-gateway/internal/models"
)

// IngestWorkflowName is the workflow registered by the worker binary.
const IngestWorkflowName = "IngestWorkflow"

// TemporalClient dispatches document indexing to workflow workers. Upload
// requests wait for the workflow result so the HTTP response can carry the
// indexing outcome.
type TemporalClient struct {
	client    client.Client
	taskQueue string
	logger    zerolog.Logger
}

func NewTemporalClient(cfg *config.TemporalConfig, logger zerolog.Logger) (*TemporalClient, error) {
	c, err := client.Dial(client.Options{
		HostPort:  cfg.HostPort,
		Namespace: cfg.Namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create temporal client: %w", err)
	}

	return &TemporalClient{
		client:    c,
		taskQueue: cfg.TaskQueue,
		logger:    logger,
	}, nil
}

func (tc *TemporalClient) Close() {
	tc.client.Close()
}

// IndexDocument runs the ingest workflow for a stored upload and blocks
// until it completes. The workflow ID reuses the stored filename, which is
// unique per upload.
func (tc *TemporalClient) IndexDocument(ctx context.Context, doc models.UploadedFile) (*models.IngestionResult, error) {
	workflowOptions := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("ingest-%s", doc.Filename),
		TaskQueue: tc.taskQueue,
	}

	we, err := tc.client.ExecuteWorkflow(ctx, workflowOptions, IngestWorkflowName, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to start ingest workflow: %w", err)
	}

	tc.logger.Info().Str("workflow_id", we.GetID()).Str("filename", doc.Filename).Msg("Started ingest workflow")

	var result models.IngestionResult
	if err := we.Get(ctx, &result); err != nil {
		return nil, fmt.Errorf("ingest workflow failed: %w", err)
	}

	return &result, nil
}

func (tc *TemporalClient) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := tc.client.WorkflowService().GetSystemInfo(ctx, &workflowservice.GetSystemInfoRequest{})
	return err
}
