package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Mohammad-Mahdi82/NexusCue/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBoardAPI struct {
	mu           sync.Mutex
	tables       []models.Table
	sessions     []models.TableSession
	tablesErr    error
	updateErr    error
	getErr       error
	confirm      func(requested int) int
	updates      []int
	orders       []models.AddOrderRequest
	rates        map[uint]decimal.Decimal
	ended        []uint
	invoice      *models.Invoice
	noInvoice    bool
	invoiceReads int
	presets      map[uint]int
	sessionOrder []models.SessionOrder
}

func intp(v int) *int { return &v }

func (f *fakeBoardAPI) Tables(context.Context) ([]models.Table, error) {
	if f.tablesErr != nil {
		return nil, f.tablesErr
	}
	return f.tables, nil
}

func (f *fakeBoardAPI) ActiveSessions(context.Context) ([]models.TableSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.TableSession, len(f.sessions))
	for i, s := range f.sessions {
		out[i] = cloneSession(s)
	}
	return out, nil
}

func (f *fakeBoardAPI) GetSession(_ context.Context, id uint) (*models.TableSession, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.ID == id {
			c := cloneSession(s)
			return &c, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeBoardAPI) StartSession(_ context.Context, req models.StartSessionRequest) (*models.TableSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := models.TableSession{ID: uint(len(f.sessions) + 100), TableID: req.TableID, CustomerName: req.CustomerName,
		SessionType: req.SessionType, Status: models.StatusActive}
	f.sessions = append(f.sessions, s)
	return &s, nil
}

func (f *fakeBoardAPI) UpdateRemainingTime(_ context.Context, id uint, remaining int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, remaining)
	if f.updateErr != nil {
		return f.updateErr
	}
	stored := remaining
	if f.confirm != nil {
		stored = f.confirm(remaining)
	}
	for i := range f.sessions {
		if f.sessions[i].ID == id {
			f.sessions[i].RemainingMinutes = intp(stored)
		}
	}
	return nil
}

func (f *fakeBoardAPI) UpdatePresetDuration(_ context.Context, id uint, minutes int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.presets == nil {
		f.presets = map[uint]int{}
	}
	f.presets[id] = minutes
	for i := range f.sessions {
		if f.sessions[i].ID == id {
			f.sessions[i].PresetDurationMinutes = minutes
		}
	}
	return nil
}

func (f *fakeBoardAPI) SessionOrders(_ context.Context, id uint) ([]models.SessionOrder, error) {
	var out []models.SessionOrder
	for _, o := range f.sessionOrder {
		if o.SessionID == id {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeBoardAPI) EndSession(_ context.Context, id uint, _ models.EndSessionRequest) (*models.EndSessionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ended = append(f.ended, id)
	kept := f.sessions[:0]
	for _, s := range f.sessions {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	f.sessions = kept
	if f.noInvoice {
		return &models.EndSessionResult{Message: "Session ended successfully", InvoiceError: "create invoice: db locked"}, nil
	}
	return &models.EndSessionResult{InvoiceID: 42, TotalAmount: decimal.NewFromInt(120000)}, nil
}

func (f *fakeBoardAPI) UpdateTableRate(_ context.Context, tableID uint, rate decimal.Decimal) error {
	if f.rates == nil {
		f.rates = map[uint]decimal.Decimal{}
	}
	f.rates[tableID] = rate
	return nil
}

func (f *fakeBoardAPI) Products(context.Context) ([]models.Product, error) {
	return []models.Product{
		{ID: 1, Name: "Sting", Price: decimal.NewFromInt(15000), IsActive: true},
		{ID: 2, Name: "Old", Price: decimal.NewFromInt(1000)},
	}, nil
}

func (f *fakeBoardAPI) AddOrder(_ context.Context, req models.AddOrderRequest) ([]models.SessionOrder, error) {
	f.orders = append(f.orders, req)
	return []models.SessionOrder{{SessionID: req.SessionID, ProductID: req.Items[0].ProductID}}, nil
}

func (f *fakeBoardAPI) Invoice(_ context.Context, id uint) (*models.Invoice, error) {
	f.invoiceReads++
	if f.invoice == nil {
		return nil, errors.New("missing")
	}
	return f.invoice, nil
}

func seededAPI() *fakeBoardAPI {
	return &fakeBoardAPI{
		tables: []models.Table{
			{ID: 1, Name: "Bàn 1", HourlyRate: decimal.NewFromInt(50000)},
			{ID: 2, Name: "Bàn 2", HourlyRate: decimal.NewFromInt(60000)},
		},
		sessions: []models.TableSession{
			{ID: 10, TableID: 1, SessionType: models.SessionFixedTime, Status: models.StatusActive, RemainingMinutes: intp(30)},
			{ID: 11, TableID: 2, SessionType: models.SessionFixedTime, Status: models.StatusActive, RemainingMinutes: intp(0)},
			{ID: 12, TableID: 3, SessionType: models.SessionFixedTime, Status: models.StatusPaused, RemainingMinutes: intp(20)},
			{ID: 13, TableID: 4, SessionType: models.SessionOpenPlay, Status: models.StatusActive},
		},
	}
}

func loadedBoard(t *testing.T, api *fakeBoardAPI, opts ...BoardOption) *Board {
	t.Helper()
	b := NewBoard(api, opts...)
	require.NoError(t, b.Load(context.Background()))
	return b
}

func remaining(t *testing.T, b *Board, id uint) *int {
	t.Helper()
	s, ok := b.Session(id)
	require.True(t, ok)
	return s.RemainingMinutes
}

func TestBoardTickOnlyTouchesActiveWithTimeLeft(t *testing.T) {
	b := loadedBoard(t, seededAPI())

	b.Tick()
	assert.Equal(t, 29, *remaining(t, b, 10))
	assert.Equal(t, 0, *remaining(t, b, 11))
	assert.Equal(t, 20, *remaining(t, b, 12))
	assert.Nil(t, remaining(t, b, 13))

	for i := 0; i < 40; i++ {
		b.Tick()
	}
	assert.Equal(t, 0, *remaining(t, b, 10))
}

func TestBoardTickNeverWritesToServer(t *testing.T) {
	api := seededAPI()
	b := loadedBoard(t, api)
	b.Tick()
	b.Tick()
	assert.Empty(t, api.updates)
	assert.Equal(t, 30, *api.sessions[0].RemainingMinutes)
}

func TestBoardSnapshotsAreCopies(t *testing.T) {
	b := loadedBoard(t, seededAPI())
	snap := b.Sessions()
	*snap[0].RemainingMinutes = 999
	assert.Equal(t, 30, *remaining(t, b, 10))
}

func TestBoardCountdownRunsOnPeriod(t *testing.T) {
	var mu sync.Mutex
	changes := 0
	b := loadedBoard(t, seededAPI(), WithCountdownPeriod(5*time.Millisecond), WithOnChange(func() {
		mu.Lock()
		changes++
		mu.Unlock()
	}))

	h := b.StartCountdown(context.Background())
	require.Eventually(t, func() bool { return *remaining(t, b, 10) <= 27 }, time.Second, time.Millisecond)
	h.Cancel()
	<-h.Done()

	left := *remaining(t, b, 10)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, left, *remaining(t, b, 10))
	mu.Lock()
	assert.Greater(t, changes, 1)
	mu.Unlock()
}

func TestBoardAdjustTimeConfirmed(t *testing.T) {
	api := seededAPI()
	api.confirm = func(requested int) int { return requested - 1 }
	b := loadedBoard(t, api)

	got, err := b.AdjustTime(context.Background(), 10, TimeStep)
	require.NoError(t, err)
	assert.Equal(t, 44, got)
	assert.Equal(t, []int{45}, api.updates)
	assert.Equal(t, 44, *remaining(t, b, 10))
}

func TestBoardAdjustTimeFallsBackToRequested(t *testing.T) {
	api := seededAPI()
	api.getErr = errors.New("read failed")
	b := loadedBoard(t, api)

	got, err := b.AdjustTime(context.Background(), 10, -TimeStep)
	require.NoError(t, err)
	assert.Equal(t, 15, got)
	assert.Equal(t, 15, *remaining(t, b, 10))
}

func TestBoardAdjustTimeRevertsOnFailure(t *testing.T) {
	api := seededAPI()
	api.updateErr = errors.New("refused")
	var seen []int
	var b *Board
	b = loadedBoard(t, api, WithOnChange(func() {
		if b == nil {
			return
		}
		if s, ok := b.Session(10); ok && s.RemainingMinutes != nil {
			seen = append(seen, *s.RemainingMinutes)
		}
	}))

	_, err := b.AdjustTime(context.Background(), 10, TimeStep)
	require.ErrorIs(t, err, api.updateErr)
	assert.Equal(t, 30, *remaining(t, b, 10))
	assert.Equal(t, []int{45, 30}, seen)
}

func TestBoardAdjustTimeValidation(t *testing.T) {
	api := seededAPI()
	b := loadedBoard(t, api)
	ctx := context.Background()

	_, err := b.AdjustTime(ctx, 11, TimeStep)
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = b.AdjustTime(ctx, 13, TimeStep)
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = b.SetRemaining(ctx, 10, 0)
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = b.AdjustTime(ctx, 99, TimeStep)
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Empty(t, api.updates)
}

func TestBoardLoadFailureEmpties(t *testing.T) {
	api := seededAPI()
	b := loadedBoard(t, api)
	require.NotEmpty(t, b.Tables())

	api.tablesErr = errors.New("down")
	assert.Error(t, b.Load(context.Background()))
	assert.Empty(t, b.Tables())
	assert.Empty(t, b.Sessions())
}

func TestBoardTableStatus(t *testing.T) {
	b := loadedBoard(t, seededAPI())
	assert.Equal(t, models.TableOccupied, b.TableStatus(1))
	assert.Equal(t, models.TableAvailable, b.TableStatus(3))
	assert.Equal(t, models.TableAvailable, b.TableStatus(9))
}

func TestBoardStartAndEnd(t *testing.T) {
	api := seededAPI()
	api.invoice = &models.Invoice{ID: 42}
	b := loadedBoard(t, api)
	ctx := context.Background()

	_, err := b.Start(ctx, models.StartSessionRequest{TableID: 1, CustomerName: "An", SessionType: models.SessionOpenPlay})
	assert.ErrorIs(t, err, models.ErrValidation)

	s, err := b.Start(ctx, models.StartSessionRequest{TableID: 5, CustomerName: "An", SessionType: models.SessionOpenPlay})
	require.NoError(t, err)
	assert.Equal(t, models.TableOccupied, b.TableStatus(5))

	res, inv, err := b.End(ctx, s.ID, models.EndSessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, uint(42), res.InvoiceID)
	assert.Equal(t, uint(42), inv.ID)
	assert.Equal(t, models.TableAvailable, b.TableStatus(5))

	neg := decimal.NewFromInt(-1)
	_, _, err = b.End(ctx, 10, models.EndSessionRequest{Discount: &neg})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestBoardEndKeepsResultWhenInvoiceMissing(t *testing.T) {
	api := seededAPI()
	b := loadedBoard(t, api)

	res, inv, err := b.End(context.Background(), 10, models.EndSessionRequest{})
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Nil(t, inv)
}

func TestBoardUpdateRate(t *testing.T) {
	api := seededAPI()
	b := loadedBoard(t, api)
	ctx := context.Background()

	assert.ErrorIs(t, b.UpdateRate(ctx, 1, decimal.Zero), models.ErrValidation)
	require.NoError(t, b.UpdateRate(ctx, 1, decimal.NewFromInt(70000)))
	assert.True(t, b.Tables()[0].HourlyRate.Equal(decimal.NewFromInt(70000)))
	assert.True(t, api.rates[1].Equal(decimal.NewFromInt(70000)))
}

func TestBoardAttachOrder(t *testing.T) {
	api := seededAPI()
	b := loadedBoard(t, api)
	ctx := context.Background()

	_, err := b.AttachOrder(ctx, 10, NewCart())
	assert.ErrorIs(t, err, models.ErrEmptyCart)

	products, err := b.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)

	cart := NewCart()
	cart.Add(1)
	cart.Add(1)
	_, err = b.AttachOrder(ctx, 10, cart)
	require.NoError(t, err)
	assert.True(t, cart.Empty())
	require.Len(t, api.orders, 1)
	assert.Equal(t, []models.AddOrderItem{{ProductID: 1, Quantity: 2}}, api.orders[0].Items)
}

func TestBoardEndWithoutInvoiceSkipsLookup(t *testing.T) {
	api := seededAPI()
	api.noInvoice = true
	api.invoice = &models.Invoice{ID: 42}
	b := loadedBoard(t, api)

	res, inv, err := b.End(context.Background(), 10, models.EndSessionRequest{})
	require.ErrorIs(t, err, ErrNoInvoice)
	assert.Contains(t, err.Error(), "db locked")
	require.NotNil(t, res)
	assert.Nil(t, inv)
	assert.Zero(t, api.invoiceReads)
	assert.Equal(t, models.TableAvailable, b.TableStatus(1))
}

func TestBoardSetPresetDuration(t *testing.T) {
	api := seededAPI()
	b := loadedBoard(t, api)
	ctx := context.Background()

	require.NoError(t, b.SetPresetDuration(ctx, 10, 120))
	assert.Equal(t, 120, api.presets[10])
	s, ok := b.Session(10)
	require.True(t, ok)
	assert.Equal(t, 120, s.PresetDurationMinutes)

	assert.ErrorIs(t, b.SetPresetDuration(ctx, 13, 60), models.ErrValidation)
	assert.ErrorIs(t, b.SetPresetDuration(ctx, 99, 60), models.ErrValidation)
	assert.NotContains(t, api.presets, uint(13))
}

func TestBoardSetPresetDurationFailureKeepsSession(t *testing.T) {
	api := seededAPI()
	api.updateErr = errors.New("refused")
	b := loadedBoard(t, api)

	require.ErrorIs(t, b.SetPresetDuration(context.Background(), 10, 120), api.updateErr)
	s, _ := b.Session(10)
	assert.Zero(t, s.PresetDurationMinutes)
}

func TestBoardOrders(t *testing.T) {
	api := seededAPI()
	api.sessionOrder = []models.SessionOrder{
		{SessionID: 10, ProductName: "Sting", Quantity: 2},
		{SessionID: 11, ProductName: "Bia", Quantity: 1},
	}
	b := loadedBoard(t, api)

	orders, err := b.Orders(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Sting", orders[0].ProductName)
}
