package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Mohammad-Mahdi82/NexusCue/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu       sync.Mutex
	calls    map[uint]int
	inflight int32
	overlap  atomic.Bool
	delay    time.Duration
	gate     map[uint]chan struct{}
	fail     func(id uint, call int) error
}

func newFakeSource() *fakeSource {
	return &fakeSource{calls: map[uint]int{}, gate: map[uint]chan struct{}{}}
}

func (f *fakeSource) CalculateSessionAmount(ctx context.Context, id uint) (*models.SessionAmount, error) {
	if atomic.AddInt32(&f.inflight, 1) > 1 {
		f.overlap.Store(true)
	}
	defer atomic.AddInt32(&f.inflight, -1)

	f.mu.Lock()
	f.calls[id]++
	call := f.calls[id]
	gate := f.gate[id]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fail != nil {
		if err := f.fail(id, call); err != nil {
			return nil, err
		}
	}
	return &models.SessionAmount{
		SessionID:     id,
		SessionType:   models.SessionFixedTime,
		ActualMinutes: 125,
		TableAmount:   decimal.NewFromInt(104000),
		OrdersAmount:  decimal.NewFromInt(16000),
		TotalAmount:   decimal.NewFromInt(120000),
		HourlyRate:    decimal.NewFromInt(50000),
	}, nil
}

func (f *fakeSource) Calls(id uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

type viewLog struct {
	mu    sync.Mutex
	views []AmountView
}

func (l *viewLog) add(v AmountView) {
	l.mu.Lock()
	l.views = append(l.views, v)
	l.mu.Unlock()
}

func (l *viewLog) all() []AmountView {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]AmountView(nil), l.views...)
}

func TestTrackerRendersAmount(t *testing.T) {
	src := newFakeSource()
	log := &viewLog{}
	tr := NewTracker(src, false, log.add)
	defer tr.Stop()

	tr.Track(7)
	require.Eventually(t, func() bool { return tr.View().Phase == Ready }, time.Second, 5*time.Millisecond)

	views := log.all()
	require.Len(t, views, 2)
	assert.Equal(t, Loading, views[0].Phase)
	assert.Equal(t, []string{"Đang tải..."}, views[0].Lines())

	lines := tr.View().Lines()
	assert.Equal(t, "120.000 ₫", lines[0])
	assert.Contains(t, lines[1], "02:05")
	assert.Contains(t, lines, "Theo giờ")
	assert.Equal(t, 1, src.Calls(7))
}

func TestTrackerSameIDIsNoop(t *testing.T) {
	src := newFakeSource()
	tr := NewTracker(src, false, nil)
	defer tr.Stop()

	tr.Track(3)
	require.Eventually(t, func() bool { return tr.View().Phase == Ready }, time.Second, 5*time.Millisecond)
	tr.Track(3)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, src.Calls(3))
}

func TestTrackerFailureKeepsPolling(t *testing.T) {
	src := newFakeSource()
	src.fail = func(_ uint, call int) error {
		if call == 1 {
			return errors.New("boom")
		}
		return nil
	}
	tr := NewTracker(src, true, nil, WithPollPeriod(20*time.Millisecond))
	defer tr.Stop()

	tr.Track(1)
	require.Eventually(t, func() bool { return tr.View().Phase == Failed }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"Không thể tính toán số tiền"}, tr.View().Lines())
	assert.Error(t, tr.View().Err)

	require.Eventually(t, func() bool { return tr.View().Phase == Ready }, time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, src.Calls(1), 2)
}

func TestTrackerDropsStaleResult(t *testing.T) {
	src := newFakeSource()
	gate := make(chan struct{})
	src.gate[1] = gate
	log := &viewLog{}
	tr := NewTracker(src, false, log.add)
	defer tr.Stop()

	tr.Track(1)
	require.Eventually(t, func() bool { return src.Calls(1) == 1 }, time.Second, time.Millisecond)

	tr.Track(2)
	require.Eventually(t, func() bool { return tr.View().Phase == Ready }, time.Second, 5*time.Millisecond)
	close(gate)
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, uint(2), tr.View().SessionID)
	for _, v := range log.all() {
		if v.Phase == Ready {
			assert.Equal(t, uint(2), v.SessionID)
		}
	}
}

func TestTrackerPollsWithoutOverlap(t *testing.T) {
	src := newFakeSource()
	src.delay = 15 * time.Millisecond
	tr := NewTracker(src, true, nil, WithPollPeriod(time.Millisecond))

	tr.Track(5)
	require.Eventually(t, func() bool { return src.Calls(5) >= 4 }, 2*time.Second, 5*time.Millisecond)
	tr.Stop()
	assert.False(t, src.overlap.Load())
}

func TestTrackerStopHaltsPolling(t *testing.T) {
	src := newFakeSource()
	tr := NewTracker(src, true, nil, WithPollPeriod(10*time.Millisecond))

	tr.Track(9)
	require.Eventually(t, func() bool { return src.Calls(9) >= 2 }, time.Second, time.Millisecond)
	tr.Stop()
	time.Sleep(15 * time.Millisecond)
	n := src.Calls(9)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, n, src.Calls(9))
}

func TestAmountViewOpenPlay(t *testing.T) {
	v := AmountView{Phase: Ready, Amount: &models.SessionAmount{
		SessionType:   models.SessionOpenPlay,
		ActualMinutes: 5,
		TableAmount:   decimal.NewFromInt(4000),
		TotalAmount:   decimal.NewFromInt(4000),
	}}
	lines := v.Lines()
	assert.Equal(t, []string{"4.000 ₫", "Bàn (00:05): 4.000 ₫", "Chơi mở"}, lines)
}

func TestTrackerStopWaitsForDelivery(t *testing.T) {
	src := newFakeSource()
	entered := make(chan struct{})
	release := make(chan struct{})
	var stopped, late atomic.Bool
	tr := NewTracker(src, false, func(v AmountView) {
		if v.Phase != Ready {
			return
		}
		if stopped.Load() {
			late.Store(true)
		}
		close(entered)
		<-release
	})

	tr.Track(4)
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("amount never delivered")
	}

	done := make(chan struct{})
	go func() {
		tr.Stop()
		stopped.Store(true)
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("Stop returned while a view was being delivered")
	case <-time.After(30 * time.Millisecond):
	}

	close(release)
	<-done
	assert.False(t, late.Load())
	assert.Zero(t, tr.SessionID())
}
