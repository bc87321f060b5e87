package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNowRunsImmediately(t *testing.T) {
	ran := make(chan struct{}, 1)
	h := Now(context.Background(), time.Hour, func(ctx context.Context) {
		ran <- struct{}{}
	})
	defer h.Cancel()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("first run did not happen")
	}
}

func TestEveryWaitsForPeriod(t *testing.T) {
	var runs atomic.Int32
	h := Every(context.Background(), time.Hour, func(ctx context.Context) {
		runs.Add(1)
	})
	time.Sleep(20 * time.Millisecond)
	h.Cancel()
	<-h.Done()
	assert.Zero(t, runs.Load())
}

func TestRunsDoNotOverlap(t *testing.T) {
	var active, overlaps, runs atomic.Int32
	h := Now(context.Background(), time.Millisecond, func(ctx context.Context) {
		if active.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(5 * time.Millisecond)
		active.Add(-1)
		runs.Add(1)
	})
	require.Eventually(t, func() bool { return runs.Load() >= 4 }, time.Second, time.Millisecond)
	h.Cancel()
	<-h.Done()
	assert.Zero(t, overlaps.Load())
}

func TestCancelStopsFurtherRuns(t *testing.T) {
	var runs atomic.Int32
	h := Now(context.Background(), time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	})
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, time.Millisecond)
	h.Cancel()
	h.Cancel()
	<-h.Done()
	after := runs.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := Every(ctx, time.Millisecond, func(ctx context.Context) {})
	cancel()
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("task survived parent cancellation")
	}
}

func TestOnceRunsOnce(t *testing.T) {
	var runs atomic.Int32
	h := Once(context.Background(), func(ctx context.Context) { runs.Add(1) })
	<-h.Done()
	h.Cancel()
	assert.Equal(t, int32(1), runs.Load())
}
