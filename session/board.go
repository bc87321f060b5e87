package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Mohammad-Mahdi82/NexusCue/models"
	"github.com/Mohammad-Mahdi82/NexusCue/schedule"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	CountdownPeriod = time.Minute
	// TimeStep is the +/- adjustment offered on the desk.
	TimeStep = 15
)

// ErrNoInvoice means the server ended the session but created no invoice.
var ErrNoInvoice = errors.New("no invoice for ended session")

// BoardAPI is the slice of the backend the tables view needs.
type BoardAPI interface {
	Tables(ctx context.Context) ([]models.Table, error)
	ActiveSessions(ctx context.Context) ([]models.TableSession, error)
	GetSession(ctx context.Context, id uint) (*models.TableSession, error)
	StartSession(ctx context.Context, req models.StartSessionRequest) (*models.TableSession, error)
	UpdateRemainingTime(ctx context.Context, id uint, remaining int) error
	UpdatePresetDuration(ctx context.Context, id uint, minutes int) error
	SessionOrders(ctx context.Context, id uint) ([]models.SessionOrder, error)
	EndSession(ctx context.Context, id uint, req models.EndSessionRequest) (*models.EndSessionResult, error)
	UpdateTableRate(ctx context.Context, tableID uint, rate decimal.Decimal) error
	Products(ctx context.Context) ([]models.Product, error)
	AddOrder(ctx context.Context, req models.AddOrderRequest) ([]models.SessionOrder, error)
	Invoice(ctx context.Context, id uint) (*models.Invoice, error)
}

// Board is the desk's mirror of tables and active sessions. The server stays
// authoritative: Load replaces everything, and the countdown only changes the
// local copy.
type Board struct {
	api      BoardAPI
	log      *zap.Logger
	onChange func()
	period   time.Duration

	mu       sync.RWMutex
	tables   []models.Table
	sessions []models.TableSession
}

type BoardOption func(*Board)

func WithCountdownPeriod(d time.Duration) BoardOption {
	return func(b *Board) { b.period = d }
}

func WithBoardLogger(log *zap.Logger) BoardOption {
	return func(b *Board) { b.log = log }
}

// WithOnChange registers a callback run after every local state change.
func WithOnChange(fn func()) BoardOption {
	return func(b *Board) { b.onChange = fn }
}

func NewBoard(api BoardAPI, opts ...BoardOption) *Board {
	b := &Board{api: api, log: zap.NewNop(), period: CountdownPeriod}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load fetches tables and active sessions together. On failure both lists are
// emptied.
func (b *Board) Load(ctx context.Context) error {
	var tables []models.Table
	var sessions []models.TableSession

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tables, err = b.api.Tables(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sessions, err = b.api.ActiveSessions(gctx)
		return err
	})
	err := g.Wait()
	if err != nil {
		tables, sessions = nil, nil
		b.log.Warn("load tables failed", zap.Error(err))
	}

	b.mu.Lock()
	b.tables = tables
	b.sessions = sessions
	b.mu.Unlock()
	b.changed()
	return err
}

func (b *Board) Tables() []models.Table {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]models.Table(nil), b.tables...)
}

func (b *Board) Sessions() []models.TableSession {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]models.TableSession, len(b.sessions))
	for i, s := range b.sessions {
		out[i] = cloneSession(s)
	}
	return out
}

func (b *Board) Session(id uint) (models.TableSession, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.sessions {
		if s.ID == id {
			return cloneSession(s), true
		}
	}
	return models.TableSession{}, false
}

// SessionForTable returns the active session on a table.
func (b *Board) SessionForTable(tableID uint) (models.TableSession, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.sessions {
		if s.TableID == tableID && s.IsActive() {
			return cloneSession(s), true
		}
	}
	return models.TableSession{}, false
}

func (b *Board) TableStatus(tableID uint) string {
	if _, ok := b.SessionForTable(tableID); ok {
		return models.TableOccupied
	}
	return models.TableAvailable
}

// Tick is one step of the local countdown: active sessions with time left
// lose a minute. Nothing is sent to the server.
func (b *Board) Tick() {
	b.mu.Lock()
	for i := range b.sessions {
		s := &b.sessions[i]
		if !s.IsActive() || s.RemainingMinutes == nil || *s.RemainingMinutes <= 0 {
			continue
		}
		left := *s.RemainingMinutes - 1
		s.RemainingMinutes = &left
	}
	b.mu.Unlock()
	b.changed()
}

// StartCountdown runs Tick every countdown period until the handle is
// cancelled.
func (b *Board) StartCountdown(ctx context.Context) *schedule.Handle {
	return schedule.Every(ctx, b.period, func(context.Context) { b.Tick() })
}

// AdjustTime moves a fixed-time session's remaining minutes by delta. The
// local value changes at once, then is replaced by what the server confirms,
// or restored if the update is refused.
func (b *Board) AdjustTime(ctx context.Context, sessionID uint, delta int) (int, error) {
	s, ok := b.Session(sessionID)
	if !ok {
		return 0, models.Invalid("session %d is not on the board", sessionID)
	}
	current, ok := s.Remaining()
	if !ok || current <= 0 {
		return 0, models.Invalid("session %d has no remaining time to adjust", sessionID)
	}
	return b.SetRemaining(ctx, sessionID, current+delta)
}

func (b *Board) SetRemaining(ctx context.Context, sessionID uint, minutes int) (int, error) {
	if minutes <= 0 {
		return 0, models.Invalid("remaining time must stay positive")
	}
	previous, ok := b.swapRemaining(sessionID, &minutes)
	if !ok {
		return 0, models.Invalid("session %d is not on the board", sessionID)
	}
	b.changed()

	if err := b.api.UpdateRemainingTime(ctx, sessionID, minutes); err != nil {
		b.swapRemaining(sessionID, previous)
		b.changed()
		b.log.Warn("update remaining time failed", zap.Uint("session_id", sessionID), zap.Error(err))
		return 0, err
	}

	confirmed := minutes
	fresh, err := b.api.GetSession(ctx, sessionID)
	if err != nil {
		b.log.Debug("re-read after time update failed", zap.Uint("session_id", sessionID), zap.Error(err))
	} else {
		if left, ok := fresh.Remaining(); ok {
			confirmed = left
		}
		b.replaceSession(*fresh)
	}
	b.swapRemaining(sessionID, &confirmed)
	b.changed()
	return confirmed, nil
}

// SetPresetDuration changes the booked length of a fixed-time session and
// refreshes it from the server.
func (b *Board) SetPresetDuration(ctx context.Context, sessionID uint, minutes int) error {
	s, ok := b.Session(sessionID)
	if !ok {
		return models.Invalid("session %d is not on the board", sessionID)
	}
	if s.SessionType != models.SessionFixedTime {
		return models.Invalid("session %d is open play", sessionID)
	}
	if err := b.api.UpdatePresetDuration(ctx, sessionID, minutes); err != nil {
		return err
	}

	fresh, err := b.api.GetSession(ctx, sessionID)
	if err != nil {
		b.log.Debug("re-read after preset update failed", zap.Uint("session_id", sessionID), zap.Error(err))
		s.PresetDurationMinutes = minutes
		fresh = &s
	}
	b.replaceSession(*fresh)
	b.changed()
	return nil
}

// Orders lists what a session has ordered so far.
func (b *Board) Orders(ctx context.Context, sessionID uint) ([]models.SessionOrder, error) {
	return b.api.SessionOrders(ctx, sessionID)
}

// Start opens a session on a table and reloads the board.
func (b *Board) Start(ctx context.Context, req models.StartSessionRequest) (*models.TableSession, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, busy := b.SessionForTable(req.TableID); busy {
		return nil, models.Invalid("table %d already has an active session", req.TableID)
	}
	s, err := b.api.StartSession(ctx, req)
	if err != nil {
		return nil, err
	}
	return s, b.Load(ctx)
}

// End closes a session and returns the invoice the server produced for it.
// The result is returned even when the invoice itself cannot be read.
func (b *Board) End(ctx context.Context, sessionID uint, req models.EndSessionRequest) (*models.EndSessionResult, *models.Invoice, error) {
	if req.Discount != nil && req.Discount.IsNegative() {
		return nil, nil, models.Invalid("discount cannot be negative")
	}
	res, err := b.api.EndSession(ctx, sessionID, req)
	if err != nil {
		return nil, nil, err
	}
	if err := b.Load(ctx); err != nil {
		b.log.Warn("reload after end session failed", zap.Error(err))
	}
	if res.InvoiceID == 0 {
		return res, nil, fmt.Errorf("session %d: %w: %s", sessionID, ErrNoInvoice, res.InvoiceError)
	}
	inv, err := b.api.Invoice(ctx, res.InvoiceID)
	if err != nil {
		return res, nil, fmt.Errorf("read invoice %d: %w", res.InvoiceID, err)
	}
	return res, inv, nil
}

func (b *Board) UpdateRate(ctx context.Context, tableID uint, rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return models.Invalid("hourly rate must be positive")
	}
	if err := b.api.UpdateTableRate(ctx, tableID, rate); err != nil {
		return err
	}
	b.mu.Lock()
	for i := range b.tables {
		if b.tables[i].ID == tableID {
			b.tables[i].HourlyRate = rate
		}
	}
	b.mu.Unlock()
	b.changed()
	return nil
}

func (b *Board) Products(ctx context.Context) ([]models.Product, error) {
	products, err := b.api.Products(ctx)
	if err != nil {
		return nil, err
	}
	active := products[:0]
	for _, p := range products {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}

// AttachOrder sends the cart to a session and clears it on success.
func (b *Board) AttachOrder(ctx context.Context, sessionID uint, cart *Cart) ([]models.SessionOrder, error) {
	if cart == nil || cart.Empty() {
		return nil, models.ErrEmptyCart
	}
	orders, err := b.api.AddOrder(ctx, models.AddOrderRequest{SessionID: sessionID, Items: cart.Items()})
	if err != nil {
		return nil, err
	}
	cart.Clear()
	return orders, nil
}

func (b *Board) swapRemaining(sessionID uint, minutes *int) (*int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.sessions {
		if b.sessions[i].ID == sessionID {
			previous := b.sessions[i].RemainingMinutes
			b.sessions[i].RemainingMinutes = minutes
			return previous, true
		}
	}
	return nil, false
}

func (b *Board) replaceSession(s models.TableSession) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.sessions {
		if b.sessions[i].ID == s.ID {
			b.sessions[i] = s
			return
		}
	}
}

func (b *Board) changed() {
	if b.onChange != nil {
		b.onChange()
	}
}

func cloneSession(s models.TableSession) models.TableSession {
	if s.RemainingMinutes != nil {
		left := *s.RemainingMinutes
		s.RemainingMinutes = &left
	}
	return s
}
