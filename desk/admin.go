package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Mohammad-Mahdi82/NexusCue/locale"
	"github.com/Mohammad-Mahdi82/NexusCue/models"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/shopspring/decimal"
)

const recentInvoices = 20

var categories = []string{"drink", "food", "accessory", "service"}

var categoryNames = map[string]string{
	"drink":     "Đồ uống",
	"food":      "Đồ ăn",
	"accessory": "Phụ kiện",
	"service":   "Dịch vụ",
}

func (d *desk) presetForm(s models.TableSession) {
	form := tview.NewForm()
	form.AddInputField("Số phút", strconv.Itoa(s.PresetDurationMinutes), 6, tview.InputFieldInteger, nil).
		AddButton("Lưu", func() {
			minutes, _ := strconv.Atoi(inputText(form, "Số phút"))
			d.closeModal()
			go d.setPreset(s.ID, minutes)
		}).
		AddButton("Hủy", d.closeModal)
	form.SetBorder(true).SetTitle(fmt.Sprintf(" THỜI LƯỢNG (tối đa %d phút) ", models.MaxPresetDurationMinutes))
	d.openModal(form, 44, 7)
}

// invoiceList shows the latest invoices; Enter prints the selected one.
func (d *desk) invoiceList() {
	go func() {
		invoices, err := d.client.Invoices(context.Background(), recentInvoices, 0)
		if err != nil {
			d.status.Error(msgListFailed)
			return
		}
		d.app.QueueUpdateDraw(func() {
			list := tview.NewList().ShowSecondaryText(false)
			for _, inv := range invoices {
				id := inv.ID
				text := fmt.Sprintf("%s  %-10s %s  %12s", locale.InvoiceNumber(inv.ID), inv.TableName,
					locale.DateTime(inv.CreatedAt), locale.Currency(inv.Amount))
				list.AddItem(tview.Escape(text), "", 0, func() {
					d.closeModal()
					go d.printInvoice(id)
				})
			}
			if len(invoices) == 0 {
				list.AddItem("Chưa có hóa đơn.", "", 0, nil)
			}
			list.SetBorder(true).SetTitle(" HÓA ĐƠN GẦN ĐÂY - [Enter] In lại ")
			d.openModal(list, 70, 22)
		})
	}()
}

func (d *desk) activityList() {
	go func() {
		acts, err := d.client.RecentActivities(context.Background())
		if err != nil {
			d.status.Error(msgListFailed)
			return
		}
		var b strings.Builder
		for _, a := range acts {
			fmt.Fprintf(&b, "[yellow]%s[-]  %-10s %s  [gray]%s[-]\n",
				a.Time, tview.Escape(a.Table), tview.Escape(a.Action), tview.Escape(a.Customer))
		}
		if len(acts) == 0 {
			b.WriteString("Chưa có hoạt động hôm nay.")
		}
		text := b.String()
		d.app.QueueUpdateDraw(func() {
			view := tview.NewTextView().SetDynamicColors(true).SetText(text)
			view.SetBorder(true).SetTitle(" HOẠT ĐỘNG HÔM NAY ")
			d.openModal(view, 64, 14)
		})
	}()
}

// walkInForm bills services sold at the counter without a table session.
func (d *desk) walkInForm() {
	form := tview.NewForm()
	form.AddInputField("Tên", "Quầy", 24, nil, nil).
		AddInputField("Dịch vụ", "", 32, nil, nil).
		AddInputField("Tiền dịch vụ", "", 12, tview.InputFieldFloat, nil).
		AddInputField("Giảm giá", "0", 12, tview.InputFieldFloat, nil).
		AddButton("Tạo & in", func() {
			total, err := decimal.NewFromString(inputText(form, "Tiền dịch vụ"))
			name := strings.TrimSpace(inputText(form, "Tên"))
			if err != nil || !total.IsPositive() || name == "" {
				d.status.Error(msgInvoiceBad)
				return
			}
			discount, err := decimal.NewFromString(inputText(form, "Giảm giá"))
			if err != nil || discount.IsNegative() {
				discount = decimal.Zero
			}
			req := models.CreateInvoiceRequest{
				TableName:      name,
				ServicesDetail: strings.TrimSpace(inputText(form, "Dịch vụ")),
				ServiceTotal:   total,
				Discount:       discount,
			}
			d.closeModal()
			go d.walkIn(req)
		}).
		AddButton("Hủy", d.closeModal)
	form.SetBorder(true).SetTitle(" HÓA ĐƠN LẺ ")
	d.openModal(form, 56, 13)
}

// productAdmin lists every product. Enter edits, [N] adds, Delete removes.
func (d *desk) productAdmin() {
	go func() {
		products, err := d.client.Products(context.Background())
		if err != nil {
			d.status.Error(msgProductsFail)
			return
		}
		d.app.QueueUpdateDraw(func() { d.showProducts(products) })
	}()
}

func (d *desk) showProducts(products []models.Product) {
	list := tview.NewList().ShowSecondaryText(false)
	for _, p := range products {
		p := p
		state := ""
		if !p.IsActive {
			state = " [gray](ngừng bán)[-]"
		}
		text := fmt.Sprintf("%-20s %-10s %12s", tview.Escape(p.Name), categoryNames[p.Category], locale.Currency(p.Price))
		list.AddItem(text+state, "", 0, func() { d.productForm(&p) })
	}
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyRune && (event.Rune() == 'n' || event.Rune() == 'N'):
			d.productForm(nil)
			return nil
		case event.Key() == tcell.KeyDelete:
			if i := list.GetCurrentItem(); i >= 0 && i < len(products) {
				d.confirmDelete(products[i])
			}
			return nil
		}
		return event
	})
	list.SetBorder(true).SetTitle(" SẢN PHẨM - [Enter] Sửa  [N] Thêm  [Del] Xóa ")
	d.openModal(list, 64, 20)
}

func (d *desk) confirmDelete(p models.Product) {
	modal := tview.NewModal().
		SetText(fmt.Sprintf("Xóa sản phẩm %q?", p.Name)).
		AddButtons([]string{"Xóa", "Hủy"}).
		SetDoneFunc(func(index int, _ string) {
			d.closeModal()
			if index != 0 {
				return
			}
			go func() {
				if d.deleteProduct(p.ID) {
					d.productAdmin()
				}
			}()
		})
	d.pages.RemovePage(pageModal)
	d.pages.AddPage(pageModal, modal, true, true)
	d.app.SetFocus(modal)
}

// productForm edits p, or creates a product when p is nil.
func (d *desk) productForm(p *models.Product) {
	var id uint
	name, category, price, desc, active := "", 0, "", "", true
	title := " THÊM SẢN PHẨM "
	if p != nil {
		id, name, price, desc, active = p.ID, p.Name, p.Price.StringFixed(0), p.Description, p.IsActive
		for i, c := range categories {
			if c == p.Category {
				category = i
			}
		}
		title = " SỬA SẢN PHẨM "
	}

	labels := make([]string, len(categories))
	for i, c := range categories {
		labels[i] = categoryNames[c]
	}

	form := tview.NewForm()
	form.AddInputField("Tên", name, 24, nil, nil).
		AddDropDown("Loại", labels, category, nil).
		AddInputField("Giá", price, 12, tview.InputFieldFloat, nil).
		AddInputField("Mô tả", desc, 32, nil, nil).
		AddCheckbox("Đang bán", active, nil).
		AddButton("Lưu", func() {
			priceValue, err := decimal.NewFromString(inputText(form, "Giá"))
			if err != nil {
				priceValue = decimal.Zero
			}
			kind, _ := form.GetFormItemByLabel("Loại").(*tview.DropDown).GetCurrentOption()
			isActive := form.GetFormItemByLabel("Đang bán").(*tview.Checkbox).IsChecked()
			req := models.ProductRequest{
				Name:        strings.TrimSpace(inputText(form, "Tên")),
				Category:    categories[max(kind, 0)],
				Price:       priceValue,
				Description: strings.TrimSpace(inputText(form, "Mô tả")),
				IsActive:    &isActive,
			}
			if err := req.Validate(); err != nil {
				d.status.Error(msgProductFailed)
				return
			}
			d.closeModal()
			go func() {
				if d.saveProduct(id, req) {
					d.productAdmin()
				}
			}()
		}).
		AddButton("Hủy", d.closeModal)
	form.SetBorder(true).SetTitle(title)
	d.pages.RemovePage(pageModal)
	d.openModal(form, 56, 15)
}
