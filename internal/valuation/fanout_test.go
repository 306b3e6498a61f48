package valuation_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/nft-valuation/internal/valuation"
)

func TestFanOut_BoundsConcurrency(t *testing.T) {
	var inFlight, peak, done atomic.Int32
	tasks := make([]valuation.Task, 12)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) error {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			done.Add(1)
			return nil
		}
	}

	require.NoError(t, valuation.FanOut(context.Background(), 3, tasks...))
	assert.Equal(t, int32(12), done.Load())
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestFanOut_ReturnsFirstErrorInSubmissionOrder(t *testing.T) {
	errFirst := errors.New("first")
	errSecond := errors.New("second")
	var ran atomic.Int32

	err := valuation.FanOut(context.Background(), 4,
		func(ctx context.Context) error { ran.Add(1); return nil },
		func(ctx context.Context) error {
			ran.Add(1)
			time.Sleep(10 * time.Millisecond)
			return errFirst
		},
		func(ctx context.Context) error { ran.Add(1); return errSecond },
		func(ctx context.Context) error { ran.Add(1); return nil },
	)

	assert.ErrorIs(t, err, errFirst)
	// siblings are not cancelled by a failure
	assert.Equal(t, int32(4), ran.Load())
}

func TestFanOut_RecoversPanics(t *testing.T) {
	err := valuation.FanOut(context.Background(), 2,
		func(ctx context.Context) error { panic("boom") },
		func(ctx context.Context) error { return nil },
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestFanOut_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false

	err := valuation.FanOut(ctx, 2, func(ctx context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.NoError(t, valuation.FanOut(context.Background(), 2))
}
