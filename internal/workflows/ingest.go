// Package workflows defines the durable ingestion pipeline the worker runs.
package workflows

import (
	"context"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"assistgen-gateway/internal/index"
	"assistgen-gateway/internal/models"
)

// Activities holds the dependencies the ingestion activities need.
type Activities struct {
	Indexer *index.Service
}

// IndexDocument runs the in-process indexing pipeline as an activity.
func (a *Activities) IndexDocument(ctx context.Context, doc models.UploadedFile) (*models.IngestionResult, error) {
	return a.Indexer.IndexDocument(ctx, doc)
}

// IngestWorkflow indexes one stored upload, retrying transient failures.
func IngestWorkflow(ctx workflow.Context, doc models.UploadedFile) (*models.IngestionResult, error) {
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var result models.IngestionResult
	if err := workflow.ExecuteActivity(ctx, "IndexDocument", doc).Get(ctx, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
