package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Mohammad-Mahdi82/NexusCue/api"
	"github.com/Mohammad-Mahdi82/NexusCue/models"
	"github.com/Mohammad-Mahdi82/NexusCue/printer"
	"github.com/Mohammad-Mahdi82/NexusCue/receipt"
	"github.com/Mohammad-Mahdi82/NexusCue/schedule"
	"github.com/Mohammad-Mahdi82/NexusCue/session"
	"github.com/rivo/tview"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	msgStartRequired = "Vui lòng chọn bàn và nhập tên khách hàng"
	msgStartFailed   = "Không thể bắt đầu phiên chơi"
	msgEndFailed     = "Không thể kết thúc phiên chơi"
	msgTimeFailed    = "Không thể cập nhật thời gian"
	msgProductsFail  = "Không thể tải sản phẩm"
	msgCartEmpty     = "Vui lòng chọn sản phẩm"
	msgOrderAdded    = "Đã thêm sản phẩm thành công"
	msgOrderFailed   = "Không thể thêm sản phẩm"
	msgRateInvalid   = "Vui lòng nhập giá hợp lệ"
	msgRateUpdated   = "Đã cập nhật giá thành công!"
	msgRateFailed    = "Không thể cập nhật giá. Vui lòng thử lại."
	msgLoadFailed    = "Không thể tải danh sách bàn"
	msgLoginFailed   = "Đăng nhập thất bại"
	msgInvoiceFailed = "Không thể tải hóa đơn"
	msgNoInvoice     = "Chưa có hóa đơn để in"
	msgExpired       = "Đã cập nhật các phiên hết giờ"
	msgPresetFailed  = "Không thể cập nhật thời lượng"
	msgPresetUpdated = "Đã cập nhật thời lượng"
	msgListFailed    = "Không thể tải dữ liệu"
	msgProductSaved  = "Đã lưu sản phẩm"
	msgProductFailed = "Không thể lưu sản phẩm"
	msgProductGone   = "Đã xóa sản phẩm"
	msgInvoiceMade   = "Đã tạo hóa đơn"
	msgInvoiceBad    = "Vui lòng nhập tên và số tiền hợp lệ"
)

// desk ties the API client, the board, the amount tracker and the printer
// chain to the terminal UI.
type desk struct {
	cfg     *Config
	log     *zap.Logger
	client  *api.Client
	board   *session.Board
	tracker *session.Tracker
	printer *printer.Chain
	dialog  *printer.Dialog
	status  *statusLine

	app    *tview.Application
	pages  *tview.Pages
	grid   *tview.Table
	detail *tview.TextView
	amount *tview.TextView
	orders *tview.TextView

	summary *tview.TextView // revenue header

	// row -> table id, touched only on the UI goroutine
	tableIDs []uint

	mu          sync.Mutex
	countdown   *schedule.Handle
	lastInvoice *models.Invoice
}

func newDesk(cfg *Config, log *zap.Logger, client *api.Client, app *tview.Application) *desk {
	d := &desk{cfg: cfg, log: log, client: client, app: app}
	d.status = newStatusLine(app, log)

	d.board = session.NewBoard(client,
		session.WithBoardLogger(log.Named("board")),
		session.WithOnChange(d.refreshUI),
	)
	d.tracker = session.NewTracker(client, true, d.showAmount,
		session.WithTrackerLogger(log.Named("amount")),
	)

	d.dialog = printer.NewDialog(cfg.PrintCommandArgs(), "")
	secure := printer.SecureContext(cfg.APIURL)
	d.printer = printer.NewChain(secure, d.status, log.Named("printer"),
		printer.NewUSB(cfg.USBVendorID, cfg.USBProductID, nil),
		d.dialog,
		printer.NewSerial(cfg.SerialPort, nil),
		printer.NewFile(cfg.DownloadDir),
	)

	d.buildUI()
	return d
}

// enter loads the board and starts the countdown. It runs after login and at
// startup with a stored token.
func (d *desk) enter() {
	d.app.QueueUpdateDraw(func() { d.pages.SwitchToPage(pageTables) })
	d.reload()

	d.mu.Lock()
	if d.countdown == nil {
		d.countdown = d.board.StartCountdown(context.Background())
	}
	d.mu.Unlock()
}

// leave stops every timer. The countdown and the poll loop only run while the
// tables page is shown.
func (d *desk) leave() {
	d.mu.Lock()
	if d.countdown != nil {
		d.countdown.Cancel()
		d.countdown = nil
	}
	d.mu.Unlock()
	d.tracker.Stop()
}

func (d *desk) reload() {
	if err := d.board.Load(context.Background()); err != nil && !errors.Is(err, api.ErrUnauthorized) {
		d.status.Error(msgLoadFailed)
	}
	d.refreshSummary()
}

// refreshSummary redraws the revenue header; a failed report only drops its
// part of the line.
func (d *desk) refreshSummary() {
	sum, err := loadSummary(context.Background(), d.client, time.Now())
	if err != nil {
		d.log.Debug("summary incomplete", zap.Error(err))
	}
	line := sum.Line()
	d.app.QueueUpdateDraw(func() { d.summary.SetText(line) })
}

// refreshOrders fills the orders pane for one session.
func (d *desk) refreshOrders(sessionID uint) {
	orders, err := d.board.Orders(context.Background(), sessionID)
	if err != nil {
		d.log.Debug("session orders failed", zap.Uint("session_id", sessionID), zap.Error(err))
	}
	text := ordersText(orders, err)
	d.app.QueueUpdateDraw(func() {
		if d.tracker.SessionID() == sessionID {
			d.orders.SetText(text)
		}
	})
}

func (d *desk) login(username, password string) {
	_, err := d.client.Login(context.Background(), models.LoginRequest{Username: username, Password: password})
	if err != nil {
		d.log.Info("login failed", zap.String("username", username), zap.Error(err))
		d.status.Error(msgLoginFailed)
		return
	}
	d.log.Info("logged in", zap.String("username", username))
	d.status.Info("")
	d.enter()
}

func (d *desk) logout() {
	if err := d.client.Logout(context.Background()); err != nil {
		d.log.Debug("logout call failed", zap.Error(err))
	}
}

// loggedOut runs whenever the token is dropped, including on a 401.
func (d *desk) loggedOut() {
	d.leave()
	d.app.QueueUpdateDraw(func() { d.pages.SwitchToPage(pageLogin) })
}

func (d *desk) adjustTime(sessionID uint, delta int) {
	if _, err := d.board.AdjustTime(context.Background(), sessionID, delta); err != nil {
		d.status.Error(msgTimeFailed)
	}
}

func (d *desk) startSession(req models.StartSessionRequest) {
	if req.TableID == 0 || req.CustomerName == "" {
		d.status.Error(msgStartRequired)
		return
	}
	if _, err := d.board.Start(context.Background(), req); err != nil {
		d.log.Warn("start session failed", zap.Uint("table_id", req.TableID), zap.Error(err))
		d.status.Error(msgStartFailed)
	}
}

// endSession closes the session, fetches its invoice and prints it.
func (d *desk) endSession(sessionID uint, req models.EndSessionRequest) {
	res, inv, err := d.board.End(context.Background(), sessionID, req)
	if res == nil {
		d.log.Warn("end session failed", zap.Uint("session_id", sessionID), zap.Error(err))
		d.status.Error(msgEndFailed)
		return
	}
	if err != nil {
		d.log.Warn("invoice fetch failed", zap.Uint("invoice_id", res.InvoiceID), zap.Error(err))
		d.status.Error(msgInvoiceFailed)
		return
	}
	d.mu.Lock()
	d.lastInvoice = inv
	d.mu.Unlock()
	d.print(inv)
	d.refreshSummary()
}

// printInvoice fetches an older invoice and prints it again.
func (d *desk) printInvoice(id uint) {
	inv, err := d.client.Invoice(context.Background(), id)
	if err != nil {
		d.log.Warn("invoice fetch failed", zap.Uint("invoice_id", id), zap.Error(err))
		d.status.Error(msgInvoiceFailed)
		return
	}
	d.mu.Lock()
	d.lastInvoice = inv
	d.mu.Unlock()
	d.print(inv)
}

// walkIn bills services sold without a table session and prints the invoice.
func (d *desk) walkIn(req models.CreateInvoiceRequest) {
	now := time.Now()
	req.StartTime, req.EndTime = now, now
	inv, err := d.client.CreateInvoice(context.Background(), req)
	if err != nil {
		d.log.Warn("create invoice failed", zap.Error(err))
		d.status.Error(msgInvoiceFailed)
		return
	}
	d.status.Info(msgInvoiceMade)
	d.mu.Lock()
	d.lastInvoice = inv
	d.mu.Unlock()
	d.print(inv)
	d.refreshSummary()
}

func (d *desk) setPreset(sessionID uint, minutes int) {
	if err := d.board.SetPresetDuration(context.Background(), sessionID, minutes); err != nil {
		d.log.Warn("preset duration failed", zap.Uint("session_id", sessionID), zap.Error(err))
		d.status.Error(msgPresetFailed)
		return
	}
	d.status.Info(msgPresetUpdated)
}

// saveProduct creates the product when id is 0 and updates it otherwise.
func (d *desk) saveProduct(id uint, req models.ProductRequest) bool {
	var err error
	if id == 0 {
		_, err = d.client.CreateProduct(context.Background(), req)
	} else {
		_, err = d.client.UpdateProduct(context.Background(), id, req)
	}
	if err != nil {
		d.log.Warn("save product failed", zap.Uint("product_id", id), zap.Error(err))
		d.status.Error(msgProductFailed)
		return false
	}
	d.status.Info(msgProductSaved)
	return true
}

func (d *desk) deleteProduct(id uint) bool {
	if err := d.client.DeleteProduct(context.Background(), id); err != nil {
		d.log.Warn("delete product failed", zap.Uint("product_id", id), zap.Error(err))
		d.status.Error(msgProductFailed)
		return false
	}
	d.status.Info(msgProductGone)
	return true
}

func (d *desk) reprint() {
	d.mu.Lock()
	inv := d.lastInvoice
	d.mu.Unlock()
	if inv == nil {
		d.status.Error(msgNoInvoice)
		return
	}
	d.print(inv)
}

func (d *desk) print(inv *models.Invoice) {
	doc, err := receipt.Build(inv, d.cfg.Shop, time.Now())
	if err != nil {
		d.log.Error("render receipt", zap.Uint("invoice_id", inv.ID), zap.Error(err))
		d.status.Error(msgInvoiceFailed)
		return
	}
	out, err := d.printer.Print(context.Background(), doc)
	if err != nil {
		return
	}
	d.log.Info("receipt printed",
		zap.Uint("invoice_id", inv.ID),
		zap.String("tier", out.Tier),
		zap.Strings("skipped", out.Skipped),
		zap.String("artifact", out.Artifact),
	)
}

func (d *desk) updateRate(tableID uint, text string) {
	rate, err := decimal.NewFromString(text)
	if err != nil || !rate.IsPositive() {
		d.status.Error(msgRateInvalid)
		return
	}
	if err := d.board.UpdateRate(context.Background(), tableID, rate); err != nil {
		d.log.Warn("update rate failed", zap.Uint("table_id", tableID), zap.Error(err))
		d.status.Error(msgRateFailed)
		return
	}
	d.status.Info(msgRateUpdated)
}

func (d *desk) submitOrder(sessionID uint, cart *session.Cart) {
	_, err := d.board.AttachOrder(context.Background(), sessionID, cart)
	switch {
	case errors.Is(err, models.ErrEmptyCart):
		d.status.Error(msgCartEmpty)
	case err != nil:
		d.log.Warn("add order failed", zap.Uint("session_id", sessionID), zap.Error(err))
		d.status.Error(msgOrderFailed)
	default:
		d.status.Info(msgOrderAdded)
		d.refreshOrders(sessionID)
	}
}

func (d *desk) expireSessions() {
	if err := d.client.AutoExpireSessions(context.Background()); err != nil {
		d.log.Warn("auto expire failed", zap.Error(err))
		d.status.Error(msgLoadFailed)
		return
	}
	d.reload()
	d.status.Info(msgExpired)
}
