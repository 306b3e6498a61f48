package workflows

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/temporal"

	"github.com/feral-file/nft-valuation/internal/domain"
	"github.com/feral-file/nft-valuation/internal/ingest"
	"github.com/feral-file/nft-valuation/internal/providers/opensea"
	"github.com/feral-file/nft-valuation/internal/store"
)

// Application error types carried across the Temporal boundary so callers
// can map workflow failures back to domain errors
const (
	ErrTypeInvalidInput         = "InvalidInput"
	ErrTypeCollectionNotFound   = "CollectionNotFound"
	ErrTypeUnknownOnMarketplace = "UnknownOnMarketplace"
	ErrTypeUpstreamUnavailable  = "UpstreamUnavailable"
)

// Executor defines the activities of the ingestion and sync workflows
//
//go:generate mockgen -source=executor.go -destination=../mocks/executor.go -package=mocks -mock_names=Executor=MockExecutor
type Executor interface {
	// SnapshotCollection fetches a collection, swaps its stored snapshot and seeds the initial listings
	SnapshotCollection(ctx context.Context, req ingest.IngestRequest) (*ingest.IngestResult, error)

	// BackfillEvents syncs the recent events of a freshly ingested collection
	BackfillEvents(ctx context.Context, slug string) (*ingest.SyncResult, error)

	// AnnounceIngested publishes the collection ingested event
	AnnounceIngested(ctx context.Context, slug string, runID string) error

	// ListCollectionSlugs returns the slug of every ingested collection
	ListCollectionSlugs(ctx context.Context) ([]string, error)

	// SyncCollection syncs a collection from its stored cursor
	SyncCollection(ctx context.Context, slug string) (*ingest.SyncResult, error)
}

type executor struct {
	pipeline ingest.Pipeline
	syncer   ingest.Syncer
	store    store.Store
}

// NewExecutor creates the activity executor
func NewExecutor(pipeline ingest.Pipeline, syncer ingest.Syncer, st store.Store) Executor {
	return &executor{
		pipeline: pipeline,
		syncer:   syncer,
		store:    st,
	}
}

func (e *executor) SnapshotCollection(ctx context.Context, req ingest.IngestRequest) (*ingest.IngestResult, error) {
	result, err := e.pipeline.SnapshotCollection(ctx, req)
	if err != nil {
		return nil, activityError(err)
	}
	return result, nil
}

func (e *executor) BackfillEvents(ctx context.Context, slug string) (*ingest.SyncResult, error) {
	result, err := e.pipeline.BackfillEvents(ctx, slug)
	if err != nil {
		return nil, activityError(err)
	}
	return result, nil
}

func (e *executor) AnnounceIngested(ctx context.Context, slug string, runID string) error {
	return activityError(e.pipeline.AnnounceIngested(ctx, slug, runID))
}

func (e *executor) ListCollectionSlugs(ctx context.Context) ([]string, error) {
	collections, err := e.store.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	slugs := make([]string, len(collections))
	for i, c := range collections {
		slugs[i] = c.Slug
	}
	return slugs, nil
}

func (e *executor) SyncCollection(ctx context.Context, slug string) (*ingest.SyncResult, error) {
	result, err := e.syncer.SyncCollection(ctx, slug, nil)
	if err != nil {
		return nil, activityError(err)
	}
	return result, nil
}

// activityError tags domain errors with an application error type. Invalid input
// and unknown collections are not retried; everything else keeps the retry policy.
func activityError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, nil)
	case errors.Is(err, domain.ErrCollectionNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeCollectionNotFound, nil)
	case errors.Is(err, opensea.ErrCollectionNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeUnknownOnMarketplace, nil)
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return temporal.NewApplicationError(err.Error(), ErrTypeUpstreamUnavailable)
	default:
		return err
	}
}
