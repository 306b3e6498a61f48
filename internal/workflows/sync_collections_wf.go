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

// SyncCollections syncs every ingested collection, at most SyncConcurrency at a time.
// A collection that fails is reported in the summary; the run fails only when every collection failed.
func (w *workerCore) SyncCollections(ctx workflow.Context) (*SyncSummary, error) {
	started := workflow.Now(ctx)

	listCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	})

	var slugs []string
	if err := workflow.ExecuteActivity(listCtx, w.executor.ListCollectionSlugs).Get(ctx, &slugs); err != nil {
		logger.ErrorWf(ctx, fmt.Errorf("failed to list collections"), zap.Error(err))
		return nil, err
	}

	logger.InfoWf(ctx, "Starting collection sync", zap.Int("collections", len(slugs)))

	syncCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: w.config.SyncTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: w.config.SyncAttempts,
		},
	})

	summary := &SyncSummary{Synced: make([]ingest.SyncResult, 0, len(slugs))}
	for start := 0; start < len(slugs); start += w.config.SyncConcurrency {
		end := min(start+w.config.SyncConcurrency, len(slugs))

		futures := make([]workflow.Future, 0, end-start)
		for _, slug := range slugs[start:end] {
			futures = append(futures, workflow.ExecuteActivity(syncCtx, w.executor.SyncCollection, slug))
		}

		for i, future := range futures {
			slug := slugs[start+i]
			var result ingest.SyncResult
			if err := future.Get(ctx, &result); err != nil {
				logger.WarnWf(ctx, "Collection sync failed",
					logger.Collection(slug),
					zap.Error(err),
				)
				summary.Failed = append(summary.Failed, slug)
				continue
			}
			summary.Synced = append(summary.Synced, result)
		}
	}
	summary.Elapsed = workflow.Now(ctx).Sub(started)

	logger.InfoWf(ctx, "Collection sync completed",
		zap.Int("synced", len(summary.Synced)),
		zap.Int("failed", len(summary.Failed)),
		zap.Duration("elapsed", summary.Elapsed),
	)

	if len(slugs) > 0 && len(summary.Synced) == 0 {
		return summary, fmt.Errorf("every collection sync failed (%d)", len(summary.Failed))
	}
	return summary, nil
}
