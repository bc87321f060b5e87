package receipt

import (
	"strings"
	"time"

	"github.com/Mohammad-Mahdi82/NexusCue/escpos"
	"github.com/Mohammad-Mahdi82/NexusCue/locale"
	"github.com/Mohammad-Mahdi82/NexusCue/models"
)

// ESCPOS builds the thermal printer stream. Fixed texts and names are folded
// to ASCII; the services detail is copied through untouched.
func ESCPOS(inv *models.Invoice, shop Shop, printedAt time.Time) []byte {
	shop = shop.orDefault()
	money := locale.ASCIICurrency

	b := escpos.NewBuilder().Init().Align(escpos.Center)
	b.Styled(escpos.ModeDoubleSize, locale.Fold(shop.Name))
	b.Line(locale.Fold(shop.Address))
	b.Line("DT: " + locale.Fold(shop.Phone))
	b.Separator()
	b.Styled(escpos.ModeEmphasized, "HOA DON THANH TOAN")

	b.Align(escpos.Left)
	b.Line("So HD: " + locale.InvoiceNumber(inv.ID))
	b.Line("Ban: " + locale.Fold(inv.TableName))
	if inv.CustomerName != "" {
		b.Line("Khach: " + locale.Fold(inv.CustomerName))
	}
	b.Line("Ngay: " + locale.Stamp(inv.CreatedAt))
	b.Separator()

	b.Line("THOI GIAN CHOI:")
	b.Line("Bat dau: " + locale.Stamp(inv.StartTime))
	b.Line("Ket thuc: " + locale.Stamp(inv.EndTime))
	b.Line("Tong TG: " + locale.Duration(inv.PlayDurationMinutes))
	b.Line("Gia/gio: " + money(inv.HourlyRate))
	b.Styled(escpos.ModeEmphasized, "Tien ban: "+money(inv.TimeTotal))

	if inv.HasServices() {
		b.Separator()
		b.Line("DICH VU:")
		if strings.HasSuffix(inv.ServicesDetail, "\n") {
			b.Text(inv.ServicesDetail)
		} else {
			b.Line(inv.ServicesDetail)
		}
		b.Styled(escpos.ModeEmphasized, "Tien dich vu: "+money(inv.ServiceTotal))
	}

	b.Separator()
	b.Line("Tam tinh: " + money(inv.Subtotal()))
	if inv.Discount.IsPositive() {
		b.Line("Giam gia: -" + money(inv.Discount))
	}
	b.Styled(escpos.ModeDoubleSize, "TONG TIEN: "+money(inv.Amount))

	b.Separator()
	b.Align(escpos.Center)
	b.Line("Cam on quy khach!")
	b.Line("Hen gap lai!")
	b.Line("In luc: " + locale.Stamp(printedAt))

	b.Feed(3).PartialCut()
	return b.Bytes()
}
