package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
	"go.uber.org/zap"

	"github.com/feral-file/nft-valuation/internal/ingest"
	"github.com/feral-file/nft-valuation/internal/logger"
)

// IngestCollection snapshots a collection, backfills its recent events and announces the new snapshot.
// A failed backfill does not fail the run: the next scheduled sync resumes from the newest stored listing.
func (w *workerCore) IngestCollection(ctx workflow.Context, req ingest.IngestRequest) (*ingest.IngestResult, error) {
	logger.InfoWf(ctx, "Starting collection ingestion", logger.Collection(req.Slug))

	// Step 1: Fetch the collection and swap the stored snapshot
	snapshotCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: w.config.SnapshotTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: w.config.SnapshotAttempts,
		},
	})

	var result ingest.IngestResult
	if err := workflow.ExecuteActivity(snapshotCtx, w.executor.SnapshotCollection, req).Get(ctx, &result); err != nil {
		logger.ErrorWf(ctx,
			fmt.Errorf("failed to snapshot collection"),
			zap.Error(err),
			logger.Collection(req.Slug),
		)
		return nil, err
	}

	// Step 2: Backfill recent events into the listing and sale logs
	syncCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: w.config.SyncTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: w.config.SyncAttempts,
		},
	})

	var backfill *ingest.SyncResult
	if err := workflow.ExecuteActivity(syncCtx, w.executor.BackfillEvents, result.Slug).Get(ctx, &backfill); err != nil {
		logger.WarnWf(ctx, "Events backfill failed",
			logger.Collection(result.Slug),
			zap.Error(err),
		)
		backfill = nil
	}
	result.Backfill = backfill

	// Step 3: Announce the new snapshot so cached profiles are dropped
	announceCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	})
	if err := workflow.ExecuteActivity(announceCtx, w.executor.AnnounceIngested, result.Slug, result.RunID).Get(ctx, nil); err != nil {
		logger.ErrorWf(ctx,
			fmt.Errorf("failed to announce ingested collection"),
			zap.Error(err),
			logger.Collection(result.Slug),
		)
		return nil, err
	}

	logger.InfoWf(ctx, "Collection ingestion completed",
		logger.Collection(result.Slug),
		zap.String("ingestRunID", result.RunID),
		zap.Int("tokens", result.Tokens),
		zap.Int("listings", result.Listings),
		zap.Bool("overlapsComplete", result.OverlapsComplete),
	)

	return &result, nil
}
