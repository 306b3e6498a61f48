package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.uber.org/zap"

	"github.com/feral-file/nft-valuation/internal/domain"
	"github.com/feral-file/nft-valuation/internal/ingest"
	"github.com/feral-file/nft-valuation/internal/logger"
	"github.com/feral-file/nft-valuation/internal/providers/opensea"
	temporalprovider "github.com/feral-file/nft-valuation/internal/providers/temporal"
)

const (
	defaultIngestWorkflowTimeout = 3 * time.Hour
	defaultSyncWorkflowTimeout   = 2 * time.Hour

	syncCollectionsWorkflowID = "sync-collections"
)

// TriggerConfig holds the workflow start options
type TriggerConfig struct {
	TaskQueue     string
	IngestTimeout time.Duration
	SyncTimeout   time.Duration
}

// Trigger runs ingestion and scheduled syncs as Temporal workflows behind the
// ingest.Ingestor and ingest.Syncer interfaces. Purges and single collection
// syncs stay in process.
type Trigger interface {
	ingest.Ingestor
	ingest.Syncer
}

type trigger struct {
	orchestrator temporalprovider.TemporalOrchestrator
	workflows    WorkerCore
	ingestor     ingest.Ingestor
	syncer       ingest.Syncer
	cfg          TriggerConfig
}

// NewTrigger creates a workflow trigger. ingestor serves purges and may be nil
// when the caller never purges; syncer serves single collection syncs.
func NewTrigger(orchestrator temporalprovider.TemporalOrchestrator, ingestor ingest.Ingestor, syncer ingest.Syncer, cfg TriggerConfig) Trigger {
	if cfg.IngestTimeout <= 0 {
		cfg.IngestTimeout = defaultIngestWorkflowTimeout
	}
	if cfg.SyncTimeout <= 0 {
		cfg.SyncTimeout = defaultSyncWorkflowTimeout
	}

	return &trigger{
		orchestrator: orchestrator,
		workflows:    NewWorkerCore(nil, WorkerCoreConfig{}),
		ingestor:     ingestor,
		syncer:       syncer,
		cfg:          cfg,
	}
}

// IngestWorkflowID is the workflow ID of a collection's ingestion. A request for a
// collection whose ingestion is still running joins that run.
func IngestWorkflowID(slug string) string {
	return "ingest-collection-" + slug
}

// IngestCollection starts the ingestion workflow and waits for its result.
// Cancelling ctx stops the wait, not the workflow.
func (t *trigger) IngestCollection(ctx context.Context, req ingest.IngestRequest) (*ingest.IngestResult, error) {
	req.Slug = strings.TrimSpace(req.Slug)
	if req.Slug == "" {
		return nil, fmt.Errorf("%w: collection slug is required", domain.ErrInvalidInput)
	}

	options := client.StartWorkflowOptions{
		ID:                       IngestWorkflowID(req.Slug),
		TaskQueue:                t.cfg.TaskQueue,
		WorkflowExecutionTimeout: t.cfg.IngestTimeout,
		WorkflowIDReusePolicy:    enums.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}
	wfRun, err := t.orchestrator.ExecuteWorkflow(ctx, options, t.workflows.IngestCollection, req)
	if err != nil {
		return nil, fmt.Errorf("failed to start ingestion workflow: %w", err)
	}

	logger.InfoCtx(ctx, "Started ingestion workflow",
		logger.Collection(req.Slug),
		zap.String("workflowID", wfRun.GetID()),
		zap.String("runID", wfRun.GetRunID()),
	)

	var result ingest.IngestResult
	if err := wfRun.Get(ctx, &result); err != nil {
		return nil, workflowError(err)
	}
	return &result, nil
}

// PurgeCollection deletes the collection in process
func (t *trigger) PurgeCollection(ctx context.Context, slug string) error {
	if t.ingestor == nil {
		return errors.New("purge is not available without an ingestor")
	}
	return t.ingestor.PurgeCollection(ctx, slug)
}

// SyncCollection syncs one collection in process
func (t *trigger) SyncCollection(ctx context.Context, slug string, since *time.Time) (*ingest.SyncResult, error) {
	return t.syncer.SyncCollection(ctx, slug, since)
}

// SyncAll starts the sync workflow and waits for it. Collections that failed are
// joined into the returned error.
func (t *trigger) SyncAll(ctx context.Context) error {
	options := client.StartWorkflowOptions{
		ID:                       syncCollectionsWorkflowID,
		TaskQueue:                t.cfg.TaskQueue,
		WorkflowExecutionTimeout: t.cfg.SyncTimeout,
		WorkflowIDReusePolicy:    enums.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}
	wfRun, err := t.orchestrator.ExecuteWorkflow(ctx, options, t.workflows.SyncCollections)
	if err != nil {
		return fmt.Errorf("failed to start sync workflow: %w", err)
	}

	logger.InfoCtx(ctx, "Started sync workflow",
		zap.String("workflowID", wfRun.GetID()),
		zap.String("runID", wfRun.GetRunID()),
	)

	var summary SyncSummary
	if err := wfRun.Get(ctx, &summary); err != nil {
		return workflowError(err)
	}

	errs := make([]error, 0, len(summary.Failed))
	for _, slug := range summary.Failed {
		errs = append(errs, fmt.Errorf("%s: sync failed", slug))
	}
	return errors.Join(errs...)
}

// workflowError maps the application error type of a failed workflow back to its domain error
func workflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return fmt.Errorf("workflow failed: %w", err)
	}

	switch appErr.Type() {
	case ErrTypeInvalidInput:
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, appErr.Error())
	case ErrTypeCollectionNotFound:
		return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, appErr.Error())
	case ErrTypeUnknownOnMarketplace:
		return fmt.Errorf("%w: %s", opensea.ErrCollectionNotFound, appErr.Error())
	case ErrTypeUpstreamUnavailable:
		return fmt.Errorf("%w: %s", domain.ErrUpstreamUnavailable, appErr.Error())
	default:
		return fmt.Errorf("workflow failed: %w", err)
	}
}
