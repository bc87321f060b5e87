// Package session mirrors the club's tables and sessions on the desk: the live
// amount of each session, the local countdown and the order cart.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Mohammad-Mahdi82/NexusCue/locale"
	"github.com/Mohammad-Mahdi82/NexusCue/models"
	"github.com/Mohammad-Mahdi82/NexusCue/schedule"
	"go.uber.org/zap"
)

const PollPeriod = 30 * time.Second

type AmountSource interface {
	CalculateSessionAmount(ctx context.Context, id uint) (*models.SessionAmount, error)
}

type Phase int

const (
	Loading Phase = iota
	Ready
	Failed
)

const (
	textLoading = "Đang tải..."
	textFailed  = "Không thể tính toán số tiền"
)

// AmountView is what one amount widget shows. It is replaced as a whole.
type AmountView struct {
	SessionID uint
	Phase     Phase
	Amount    *models.SessionAmount
	Err       error
}

// Lines renders the view for display.
func (v AmountView) Lines() []string {
	switch v.Phase {
	case Loading:
		return []string{textLoading}
	case Failed:
		return []string{textFailed}
	}
	a := v.Amount
	lines := []string{
		locale.Currency(a.TotalAmount),
		fmt.Sprintf("Bàn (%s): %s", locale.Clock(a.ActualMinutes), locale.Currency(a.TableAmount)),
	}
	if a.OrdersAmount.IsPositive() {
		lines = append(lines, "Đồ ăn/uống: "+locale.Currency(a.OrdersAmount))
	}
	if a.SessionType == models.SessionFixedTime {
		lines = append(lines, "Theo giờ")
	} else {
		lines = append(lines, "Chơi mở")
	}
	return lines
}

// Tracker keeps one AmountView fresh for the session it is pointed at.
// onChange runs on the polling goroutine and must not call Track or Stop.
type Tracker struct {
	source   AmountSource
	realtime bool
	period   time.Duration
	onChange func(AmountView)
	log      *zap.Logger

	emitMu sync.Mutex
	mu     sync.Mutex
	gen    uint64
	id     uint
	view   AmountView
	handle *schedule.Handle
}

type TrackerOption func(*Tracker)

func WithPollPeriod(d time.Duration) TrackerOption {
	return func(t *Tracker) { t.period = d }
}

func WithTrackerLogger(log *zap.Logger) TrackerOption {
	return func(t *Tracker) { t.log = log }
}

func NewTracker(source AmountSource, realtime bool, onChange func(AmountView), opts ...TrackerOption) *Tracker {
	t := &Tracker{
		source:   source,
		realtime: realtime,
		period:   PollPeriod,
		onChange: onChange,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Track points the tracker at a session. A new id cancels the previous poll
// loop and starts over from Loading; the same id is a no-op.
func (t *Tracker) Track(id uint) {
	t.emitMu.Lock()
	defer t.emitMu.Unlock()

	t.mu.Lock()
	if t.handle != nil && t.id == id {
		t.mu.Unlock()
		return
	}
	if t.handle != nil {
		t.handle.Cancel()
	}
	t.gen++
	t.id = id
	t.view = AmountView{SessionID: id, Phase: Loading}
	view := t.view

	fetch := t.fetcher(t.gen, id)
	if t.realtime {
		t.handle = schedule.Now(context.Background(), t.period, fetch)
	} else {
		t.handle = schedule.Once(context.Background(), fetch)
	}
	t.mu.Unlock()

	t.notify(view)
}

// Stop cancels polling. Results still in flight are dropped, and once Stop
// returns onChange is not called again until the next Track.
func (t *Tracker) Stop() {
	t.emitMu.Lock()
	defer t.emitMu.Unlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.handle != nil {
		t.handle.Cancel()
		t.handle = nil
	}
	t.gen++
	t.id = 0
}

func (t *Tracker) View() AmountView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view
}

// SessionID is the tracked session, or 0 when stopped.
func (t *Tracker) SessionID() uint {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.id
}

func (t *Tracker) fetcher(gen uint64, id uint) func(ctx context.Context) {
	return func(ctx context.Context) {
		amount, err := t.source.CalculateSessionAmount(ctx, id)
		view := AmountView{SessionID: id, Phase: Ready, Amount: amount}
		if err != nil {
			view = AmountView{SessionID: id, Phase: Failed, Err: err}
		}

		t.emitMu.Lock()
		defer t.emitMu.Unlock()
		t.mu.Lock()
		if gen != t.gen {
			t.mu.Unlock()
			t.log.Debug("stale amount dropped", zap.Uint("session_id", id))
			return
		}
		t.view = view
		t.mu.Unlock()

		if err != nil {
			t.log.Warn("calculate amount failed", zap.Uint("session_id", id), zap.Error(err))
		}
		t.notify(view)
	}
}

func (t *Tracker) notify(view AmountView) {
	if t.onChange != nil {
		t.onChange(view)
	}
}
