package workflows

import (
	"time"

	"go.temporal.io/sdk/workflow"

	"github.com/feral-file/nft-valuation/internal/ingest"
)

const (
	defaultSnapshotTimeout  = time.Hour
	defaultSnapshotAttempts = 3
	defaultSyncTimeout      = 30 * time.Minute
	defaultSyncAttempts     = 2
	defaultSyncConcurrency  = 4
)

// WorkerCore defines the collection lifecycle workflows
type WorkerCore interface {
	// IngestCollection snapshots a collection, backfills its recent events and announces the new snapshot
	IngestCollection(ctx workflow.Context, req ingest.IngestRequest) (*ingest.IngestResult, error)

	// SyncCollections syncs the events of every ingested collection
	SyncCollections(ctx workflow.Context) (*SyncSummary, error)
}

// WorkerCoreConfig tunes activity timeouts and retries
type WorkerCoreConfig struct {
	// SnapshotTimeout bounds one attempt of the snapshot activity (fetch, overlaps, swap)
	SnapshotTimeout time.Duration
	// SnapshotAttempts is the maximum number of snapshot attempts
	SnapshotAttempts int32
	// SyncTimeout bounds one attempt of a collection sync or backfill
	SyncTimeout time.Duration
	// SyncAttempts is the maximum number of attempts per collection sync
	SyncAttempts int32
	// SyncConcurrency caps the collection syncs in flight
	SyncConcurrency int
}

// SyncSummary reports a SyncCollections run
type SyncSummary struct {
	Synced  []ingest.SyncResult `json:"synced"`
	Failed  []string            `json:"failed,omitempty"`
	Elapsed time.Duration       `json:"elapsed"`
}

type workerCore struct {
	config   WorkerCoreConfig
	executor Executor
}

// NewWorkerCore creates a worker core. A nil executor is enough to reference
// the workflow functions when starting them from a client.
func NewWorkerCore(executor Executor, config WorkerCoreConfig) WorkerCore {
	if config.SnapshotTimeout <= 0 {
		config.SnapshotTimeout = defaultSnapshotTimeout
	}
	if config.SnapshotAttempts <= 0 {
		config.SnapshotAttempts = defaultSnapshotAttempts
	}
	if config.SyncTimeout <= 0 {
		config.SyncTimeout = defaultSyncTimeout
	}
	if config.SyncAttempts <= 0 {
		config.SyncAttempts = defaultSyncAttempts
	}
	if config.SyncConcurrency <= 0 {
		config.SyncConcurrency = defaultSyncConcurrency
	}

	return &workerCore{
		executor: executor,
		config:   config,
	}
}
