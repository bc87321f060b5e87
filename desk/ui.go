package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Mohammad-Mahdi82/NexusCue/locale"
	"github.com/Mohammad-Mahdi82/NexusCue/models"
	"github.com/Mohammad-Mahdi82/NexusCue/session"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/shopspring/decimal"
)

const (
	pageLogin  = "login"
	pageTables = "tables"
	pageModal  = "modal"
)

const helpText = " [+/-] ±15 phút | [S] Mở bàn | [D] Thời lượng | [E] Kết thúc & in | [O] Gọi món | [R] Giá giờ | [P] In lại | [F] Làm mới \n" +
	" [I] Hóa đơn | [N] Hóa đơn lẻ | [M] Sản phẩm | [A] Hoạt động | [X] Hết giờ | [L] Đăng xuất | [ESC] Thoát "

func (d *desk) buildUI() {
	d.pages = tview.NewPages()

	d.grid = tview.NewTable().SetBorders(false).SetSelectable(true, false).SetFixed(1, 0)
	d.grid.SetSelectedStyle(tcell.StyleDefault.Background(tcell.ColorNone).Foreground(tcell.ColorYellow).Attributes(tcell.AttrBold))
	d.grid.SetBorder(true).SetTitle(" BÀN ").SetBorderPadding(0, 0, 1, 1)
	d.grid.SetSelectionChangedFunc(func(row, col int) { d.drawDetail() })
	d.grid.SetInputCapture(d.tableKeys)

	d.detail = tview.NewTextView().SetDynamicColors(true)
	d.detail.SetBorder(true).SetTitle(" PHIÊN CHƠI ").SetBorderPadding(0, 0, 1, 1)
	d.amount = tview.NewTextView().SetDynamicColors(true)
	d.amount.SetBorder(true).SetTitle(" TẠM TÍNH ").SetBorderPadding(0, 0, 1, 1)
	d.orders = tview.NewTextView().SetDynamicColors(true)
	d.orders.SetBorder(true).SetTitle(" ĐÃ GỌI ").SetBorderPadding(0, 0, 1, 1)
	d.summary = tview.NewTextView().SetTextAlign(tview.AlignCenter).SetTextColor(tcell.ColorAqua)

	side := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(d.detail, 9, 0, false).
		AddItem(d.amount, 7, 0, false).
		AddItem(d.orders, 0, 1, false)
	body := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(d.grid, 0, 2, true).
		AddItem(side, 0, 1, false)

	footer := tview.NewTextView().SetText(helpText).
		SetTextAlign(tview.AlignCenter).SetTextColor(tcell.ColorYellow)

	tables := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(d.summary, 1, 0, false).
		AddItem(body, 0, 1, true).
		AddItem(d.status.view, 1, 0, false).
		AddItem(footer, 2, 0, false)

	d.pages.AddPage(pageTables, tables, true, false)
	d.pages.AddPage(pageLogin, d.loginPage(), true, true)

	d.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			if d.pages.HasPage(pageModal) {
				d.closeModal()
				return nil
			}
			d.app.Stop()
			return nil
		}
		return event
	})
}

func (d *desk) loginPage() tview.Primitive {
	form := tview.NewForm()
	form.AddInputField("Tên đăng nhập", "", 24, nil, nil).
		AddPasswordField("Mật khẩu", "", 24, '*', nil).
		AddButton("Đăng nhập", func() {
			user := form.GetFormItemByLabel("Tên đăng nhập").(*tview.InputField).GetText()
			pass := form.GetFormItemByLabel("Mật khẩu").(*tview.InputField).GetText()
			go d.login(strings.TrimSpace(user), pass)
		})
	form.SetBorder(true).SetTitle(" ĐĂNG NHẬP ")

	box := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 9, 0, true).
		AddItem(d.status.view, 1, 0, false)
	return centered(box, 44, 10)
}

// refreshUI redraws the grid from the board. Safe from any goroutine.
func (d *desk) refreshUI() {
	d.app.QueueUpdateDraw(d.drawTables)
}

func (d *desk) drawTables() {
	tables := d.board.Tables()
	selected, _ := d.grid.GetSelection()

	d.grid.Clear()
	d.tableIDs = d.tableIDs[:0]
	for i, h := range []string{"BÀN", "TRẠNG THÁI", "GIÁ/GIỜ", "KHÁCH", "CÒN LẠI"} {
		d.grid.SetCell(0, i, tview.NewTableCell(h).SetTextColor(tcell.ColorYellow).
			SetAttributes(tcell.AttrBold).SetSelectable(false))
	}

	if len(tables) == 0 {
		d.grid.SetCell(1, 0, tview.NewTableCell("Không có bàn nào.").SetSelectable(false))
		d.drawDetail()
		return
	}

	for i, t := range tables {
		row := i + 1
		status, customer, left := "Trống", "", "-"
		color := tcell.ColorGreen
		if s, ok := d.board.SessionForTable(t.ID); ok {
			status, customer, color = "Đang chơi", s.CustomerName, tcell.ColorRed
			left = remainingText(&s)
		}
		d.grid.SetCell(row, 0, tview.NewTableCell(t.Name).SetTextColor(color))
		d.grid.SetCell(row, 1, tview.NewTableCell(status).SetTextColor(color))
		d.grid.SetCell(row, 2, tview.NewTableCell(locale.Currency(t.HourlyRate)).SetAlign(tview.AlignRight))
		d.grid.SetCell(row, 3, tview.NewTableCell(customer).SetExpansion(1))
		d.grid.SetCell(row, 4, tview.NewTableCell(left).SetAlign(tview.AlignRight))
		d.tableIDs = append(d.tableIDs, t.ID)
	}

	if selected < 1 {
		selected = 1
	}
	if selected > len(tables) {
		selected = len(tables)
	}
	d.grid.Select(selected, 0)
	d.drawDetail()
}

func remainingText(s *models.TableSession) string {
	left, ok := s.Remaining()
	if !ok {
		return "Chơi mở"
	}
	if left <= 0 {
		return "Hết giờ"
	}
	return locale.Clock(left)
}

// drawDetail shows the selected table's session and points the tracker at it.
func (d *desk) drawDetail() {
	tableID, ok := d.selectedTable()
	if !ok {
		d.detail.Clear()
		d.clearSession()
		return
	}
	s, busy := d.board.SessionForTable(tableID)
	if !busy {
		d.detail.SetText("[green]Bàn trống[-]\n\nNhấn [S] để mở bàn.")
		d.clearSession()
		return
	}

	kind := "Chơi mở"
	if s.SessionType == models.SessionFixedTime {
		kind = fmt.Sprintf("Theo giờ (%s)", locale.LongDuration(s.PresetDurationMinutes))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Khách: [white::b]%s[-::-]\n", tview.Escape(s.CustomerName))
	fmt.Fprintf(&b, "Loại: %s\n", kind)
	fmt.Fprintf(&b, "Bắt đầu: %s\n", locale.DateTime(s.StartTime))
	fmt.Fprintf(&b, "Giá: %s/giờ\n", locale.Currency(s.HourlyRate))
	if s.PrepaidAmount.IsPositive() {
		fmt.Fprintf(&b, "Trả trước: %s\n", locale.Currency(s.PrepaidAmount))
	}
	fmt.Fprintf(&b, "Còn lại: [yellow]%s[-]\n", remainingText(&s))
	d.detail.SetText(b.String())

	if d.tracker.SessionID() != s.ID {
		d.orders.SetText("Đang tải...")
		go d.refreshOrders(s.ID)
	}
	d.tracker.Track(s.ID)
}

func (d *desk) clearSession() {
	d.tracker.Stop()
	d.amount.Clear()
	d.orders.Clear()
}

func ordersText(orders []models.SessionOrder, err error) string {
	if err != nil {
		return "[red]" + msgListFailed + "[-]"
	}
	if len(orders) == 0 {
		return "Chưa gọi món."
	}
	var b strings.Builder
	total := decimal.Zero
	for _, o := range orders {
		fmt.Fprintf(&b, "%s x%d  %s\n", tview.Escape(o.ProductName), o.Quantity, locale.Currency(o.TotalPrice))
		total = total.Add(o.TotalPrice)
	}
	fmt.Fprintf(&b, "[yellow]Cộng: %s[-]", locale.Currency(total))
	return b.String()
}

// showAmount is the tracker callback; it runs off the UI goroutine.
func (d *desk) showAmount(v session.AmountView) {
	d.app.QueueUpdateDraw(func() {
		if v.SessionID != d.tracker.SessionID() {
			return
		}
		lines := v.Lines()
		if v.Phase == session.Ready {
			lines[0] = "[green::b]" + lines[0] + "[-::-]"
		}
		d.amount.SetText(strings.Join(lines, "\n"))
	})
}

func (d *desk) selectedTable() (uint, bool) {
	row, _ := d.grid.GetSelection()
	if row < 1 || row > len(d.tableIDs) {
		return 0, false
	}
	return d.tableIDs[row-1], true
}

func (d *desk) selectedSession() (models.TableSession, bool) {
	tableID, ok := d.selectedTable()
	if !ok {
		return models.TableSession{}, false
	}
	return d.board.SessionForTable(tableID)
}

func (d *desk) tableKeys(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyF5 {
		go d.reload()
		return nil
	}
	if event.Key() != tcell.KeyRune {
		return event
	}
	switch event.Rune() {
	case '+', '=':
		if s, ok := d.selectedSession(); ok {
			go d.adjustTime(s.ID, session.TimeStep)
		}
	case '-':
		if s, ok := d.selectedSession(); ok {
			go d.adjustTime(s.ID, -session.TimeStep)
		}
	case 's', 'S':
		if tableID, ok := d.selectedTable(); ok {
			if _, busy := d.board.SessionForTable(tableID); !busy {
				d.startForm(tableID)
			}
		}
	case 'e', 'E':
		if s, ok := d.selectedSession(); ok {
			d.endForm(s)
		}
	case 'o', 'O':
		if s, ok := d.selectedSession(); ok {
			d.orderModal(s)
		}
	case 'r', 'R':
		if tableID, ok := d.selectedTable(); ok {
			d.rateForm(tableID)
		}
	case 'd', 'D':
		if s, ok := d.selectedSession(); ok && s.SessionType == models.SessionFixedTime {
			d.presetForm(s)
		}
	case 'i', 'I':
		d.invoiceList()
	case 'n', 'N':
		d.walkInForm()
	case 'm', 'M':
		d.productAdmin()
	case 'a', 'A':
		d.activityList()
	case 'p', 'P':
		go d.reprint()
	case 'f', 'F':
		go d.reload()
	case 'x', 'X':
		go d.expireSessions()
	case 'l', 'L':
		go d.logout()
	default:
		return event
	}
	return nil
}

func (d *desk) startForm(tableID uint) {
	form := tview.NewForm()
	types := []string{"Theo giờ", "Chơi mở"}
	form.AddInputField("Khách hàng", "", 24, nil, nil).
		AddDropDown("Loại", types, 0, nil).
		AddInputField("Số phút", "60", 6, tview.InputFieldInteger, nil).
		AddInputField("Trả trước", "0", 12, tview.InputFieldFloat, nil).
		AddButton("Bắt đầu", func() {
			kind, _ := form.GetFormItemByLabel("Loại").(*tview.DropDown).GetCurrentOption()
			minutes, _ := strconv.Atoi(inputText(form, "Số phút"))
			prepaid, err := decimal.NewFromString(inputText(form, "Trả trước"))
			if err != nil {
				prepaid = decimal.Zero
			}
			req := models.StartSessionRequest{
				TableID:       tableID,
				CustomerName:  strings.TrimSpace(inputText(form, "Khách hàng")),
				SessionType:   models.SessionFixedTime,
				PrepaidAmount: prepaid,
			}
			if kind == 1 {
				req.SessionType = models.SessionOpenPlay
			} else {
				req.PresetDurationMinutes = minutes
			}
			d.closeModal()
			go d.startSession(req)
		}).
		AddButton("Hủy", d.closeModal)
	form.SetBorder(true).SetTitle(" MỞ BÀN ")
	d.openModal(form, 50, 13)
}

func (d *desk) endForm(s models.TableSession) {
	form := tview.NewForm()
	form.AddInputField("Giảm giá", "0", 12, tview.InputFieldFloat, nil).
		AddButton("Kết thúc & in", func() {
			var req models.EndSessionRequest
			if discount, err := decimal.NewFromString(inputText(form, "Giảm giá")); err == nil && !discount.IsZero() {
				req.Discount = &discount
			}
			d.closeModal()
			go d.endSession(s.ID, req)
		}).
		AddButton("Hủy", d.closeModal)
	form.SetBorder(true).SetTitle(fmt.Sprintf(" KẾT THÚC: %s ", tview.Escape(s.CustomerName)))
	d.openModal(form, 50, 7)
}

func (d *desk) rateForm(tableID uint) {
	current := ""
	for _, t := range d.board.Tables() {
		if t.ID == tableID {
			current = t.HourlyRate.StringFixed(0)
		}
	}
	form := tview.NewForm()
	form.AddInputField("Giá/giờ", current, 12, tview.InputFieldFloat, nil).
		AddButton("Lưu", func() {
			text := inputText(form, "Giá/giờ")
			d.closeModal()
			go d.updateRate(tableID, text)
		}).
		AddButton("Hủy", d.closeModal)
	form.SetBorder(true).SetTitle(" GIÁ GIỜ ")
	d.openModal(form, 40, 7)
}

// orderModal lists active products; Enter adds one unit, Backspace removes
// one, and [G] sends the cart.
func (d *desk) orderModal(s models.TableSession) {
	go func() {
		products, err := d.board.Products(context.Background())
		if err != nil {
			d.status.Error(msgProductsFail)
			return
		}
		d.app.QueueUpdateDraw(func() { d.showOrderList(s, products) })
	}()
}

func (d *desk) showOrderList(s models.TableSession, products []models.Product) {
	cart := session.NewCart()
	list := tview.NewList().ShowSecondaryText(false)
	total := tview.NewTextView().SetDynamicColors(true)

	label := func(p models.Product) string {
		text := fmt.Sprintf("%-20s %12s", p.Name, locale.Currency(p.Price))
		if q := cart.Quantity(p.ID); q > 0 {
			text += fmt.Sprintf("  x%d", q)
		}
		return text
	}
	redraw := func() {
		for i, p := range products {
			list.SetItemText(i, label(p), "")
		}
		total.SetText("Tổng: [yellow]" + locale.Currency(cart.Total(products)) + "[-]   [G] Gửi  [ESC] Hủy")
	}
	for _, p := range products {
		p := p
		list.AddItem(label(p), "", 0, func() {
			cart.Add(p.ID)
			redraw()
		})
	}
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyBackspace || event.Key() == tcell.KeyBackspace2:
			if i := list.GetCurrentItem(); i >= 0 && i < len(products) {
				cart.Remove(products[i].ID)
				redraw()
			}
			return nil
		case event.Key() == tcell.KeyRune && (event.Rune() == 'g' || event.Rune() == 'G'):
			d.closeModal()
			go d.submitOrder(s.ID, cart)
			return nil
		}
		return event
	})
	redraw()

	box := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(list, 0, 1, true).
		AddItem(total, 1, 0, false)
	box.SetBorder(true).SetTitle(fmt.Sprintf(" GỌI MÓN: %s ", tview.Escape(s.CustomerName)))
	d.openModal(box, 52, 18)
}

func (d *desk) openModal(p tview.Primitive, width, height int) {
	d.pages.AddPage(pageModal, centered(p, width, height), true, true)
	d.app.SetFocus(p)
}

func (d *desk) closeModal() {
	d.pages.RemovePage(pageModal)
	d.app.SetFocus(d.grid)
}

func inputText(form *tview.Form, label string) string {
	return form.GetFormItemByLabel(label).(*tview.InputField).GetText()
}

func centered(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}
