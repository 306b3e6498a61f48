package scheduler_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/nft-valuation/internal/adapter"
	"github.com/feral-file/nft-valuation/internal/config"
	"github.com/feral-file/nft-valuation/internal/logger"
	"github.com/feral-file/nft-valuation/internal/mocks"
	"github.com/feral-file/nft-valuation/internal/scheduler"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestSyncScheduler_RunOnStart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	syncer := mocks.NewMockSyncer(ctrl)
	s := scheduler.NewSyncScheduler(config.SyncConfig{Schedule: "@every 1h", RunOnStart: true}, syncer, adapter.NewClock())

	ran := make(chan struct{})
	syncer.EXPECT().SyncAll(gomock.Any()).
		DoAndReturn(func(ctx context.Context) error {
			close(ran)
			return errors.New("one collection failed")
		}).
		Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("sync did not run on start")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestSyncScheduler_Stop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	syncer := mocks.NewMockSyncer(ctrl)
	s := scheduler.NewSyncScheduler(config.SyncConfig{Schedule: "@every 1h"}, syncer, adapter.NewClock())
	assert.Equal(t, "sync-scheduler", s.Name())

	done := make(chan error, 1)
	go func() { done <- s.Start(context.Background()) }()

	require.Eventually(t, func() bool {
		stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return s.Stop(stopCtx) == nil && len(done) == 1
	}, 5*time.Second, 10*time.Millisecond)

	assert.NoError(t, <-done)
}

func TestSyncScheduler_InvalidSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	syncer := mocks.NewMockSyncer(ctrl)
	s := scheduler.NewSyncScheduler(config.SyncConfig{Schedule: "every now and then"}, syncer, adapter.NewClock())

	err := s.Start(context.Background())

	assert.ErrorContains(t, err, "invalid sync schedule")
}

func TestSyncScheduler_StopWhenNotRunning(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := scheduler.NewSyncScheduler(config.SyncConfig{Schedule: "@every 1h"}, mocks.NewMockSyncer(ctrl), adapter.NewClock())

	assert.NoError(t, s.Stop(context.Background()))
}
