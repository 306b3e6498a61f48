package workflows_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	"github.com/feral-file/nft-valuation/internal/domain"
	"github.com/feral-file/nft-valuation/internal/ingest"
	"github.com/feral-file/nft-valuation/internal/mocks"
	"github.com/feral-file/nft-valuation/internal/providers/opensea"
	"github.com/feral-file/nft-valuation/internal/store/schema"
	"github.com/feral-file/nft-valuation/internal/workflows"
)

type executorMocks struct {
	pipeline *mocks.MockPipeline
	syncer   *mocks.MockSyncer
	store    *mocks.MockStore
}

func setupExecutor(t *testing.T) (workflows.Executor, *executorMocks) {
	ctrl := gomock.NewController(t)
	m := &executorMocks{
		pipeline: mocks.NewMockPipeline(ctrl),
		syncer:   mocks.NewMockSyncer(ctrl),
		store:    mocks.NewMockStore(ctrl),
	}
	return workflows.NewExecutor(m.pipeline, m.syncer, m.store), m
}

func TestExecutor_SnapshotCollection(t *testing.T) {
	executor, m := setupExecutor(t)

	req := ingest.IngestRequest{Slug: "apes"}
	m.pipeline.EXPECT().SnapshotCollection(gomock.Any(), req).Return(&ingest.IngestResult{RunID: "run-1", Slug: "apes"}, nil)

	result, err := executor.SnapshotCollection(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "run-1", result.RunID)
}

func TestExecutor_ErrorTypes(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantType     string
		nonRetryable bool
	}{
		{"invalid input", fmt.Errorf("%w: collection slug is required", domain.ErrInvalidInput), workflows.ErrTypeInvalidInput, true},
		{"collection not found", fmt.Errorf("%w: apes", domain.ErrCollectionNotFound), workflows.ErrTypeCollectionNotFound, true},
		{"unknown on marketplace", fmt.Errorf("%w: apes", opensea.ErrCollectionNotFound), workflows.ErrTypeUnknownOnMarketplace, true},
		{"upstream unavailable", fmt.Errorf("%w: 503", domain.ErrUpstreamUnavailable), workflows.ErrTypeUpstreamUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			executor, m := setupExecutor(t)
			m.pipeline.EXPECT().SnapshotCollection(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			_, err := executor.SnapshotCollection(context.Background(), ingest.IngestRequest{Slug: "apes"})

			var appErr *temporal.ApplicationError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantType, appErr.Type())
			assert.Equal(t, tt.nonRetryable, appErr.NonRetryable())
			assert.Contains(t, appErr.Error(), tt.err.Error())
		})
	}
}

func TestExecutor_UntypedErrorPassesThrough(t *testing.T) {
	executor, m := setupExecutor(t)

	boom := errors.New("connection reset")
	m.syncer.EXPECT().SyncCollection(gomock.Any(), "apes", nil).Return(nil, boom)

	_, err := executor.SyncCollection(context.Background(), "apes")
	assert.ErrorIs(t, err, boom)

	var appErr *temporal.ApplicationError
	assert.False(t, errors.As(err, &appErr))
}

func TestExecutor_BackfillAndAnnounce(t *testing.T) {
	executor, m := setupExecutor(t)

	m.pipeline.EXPECT().BackfillEvents(gomock.Any(), "apes").Return(&ingest.SyncResult{Slug: "apes", Listings: 2}, nil)
	m.pipeline.EXPECT().AnnounceIngested(gomock.Any(), "apes", "run-1").Return(nil)

	backfill, err := executor.BackfillEvents(context.Background(), "apes")
	require.NoError(t, err)
	assert.Equal(t, 2, backfill.Listings)

	assert.NoError(t, executor.AnnounceIngested(context.Background(), "apes", "run-1"))
}

func TestExecutor_ListCollectionSlugs(t *testing.T) {
	executor, m := setupExecutor(t)

	m.store.EXPECT().ListCollections(gomock.Any()).Return([]schema.Collection{{Slug: "apes"}, {Slug: "punks"}}, nil)

	slugs, err := executor.ListCollectionSlugs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"apes", "punks"}, slugs)
}

func TestExecutor_ListCollectionSlugs_StoreError(t *testing.T) {
	executor, m := setupExecutor(t)

	m.store.EXPECT().ListCollections(gomock.Any()).Return(nil, errors.New("db down"))

	_, err := executor.ListCollectionSlugs(context.Background())
	assert.Error(t, err)
}
