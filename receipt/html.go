package receipt

import (
	"bytes"
	"html/template"
	"time"

	"github.com/Mohammad-Mahdi82/NexusCue/locale"
	"github.com/Mohammad-Mahdi82/NexusCue/models"
)

var page = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html lang="vi">
<head>
<meta charset="UTF-8">
<title>Hóa đơn {{.Number}}</title>
<style>
body{font-family:monospace;margin:0;padding:16px}
.receipt{max-width:300px;margin:0 auto;font-size:12px;line-height:1.3}
.center{text-align:center}
.shop{font-size:16px;font-weight:bold}
.sep{border-top:1px dashed #888;margin:8px 0}
.row{display:flex;justify-content:space-between}
.bold{font-weight:bold}
.total{font-size:15px;font-weight:bold;border-top:1px solid #888;padding-top:4px}
.detail{white-space:pre-wrap;font-size:11px}
@page{size:80mm auto;margin:5mm}
</style>
</head>
<body onload="window.print()">
<div class="receipt">
<div class="center">
<div class="shop">{{.Shop.Name}}</div>
<div>{{.Shop.Address}}</div>
<div>ĐT: {{.Shop.Phone}}</div>
<div class="sep"></div>
<div class="bold">HÓA ĐƠN THANH TOÁN</div>
</div>
<div class="row"><span>Số HĐ:</span><span>{{.Number}}</span></div>
<div class="row"><span>Bàn:</span><span>{{.TableName}}</span></div>
{{- if .CustomerName}}
<div class="row"><span>Khách:</span><span>{{.CustomerName}}</span></div>
{{- end}}
<div class="row"><span>Ngày:</span><span>{{.CreatedAt}}</span></div>
<div class="sep"></div>
<div class="bold">THỜI GIAN CHƠI:</div>
<div class="row"><span>Bắt đầu:</span><span>{{.Start}}</span></div>
<div class="row"><span>Kết thúc:</span><span>{{.End}}</span></div>
<div class="row"><span>Tổng thời gian:</span><span>{{.Duration}}</span></div>
<div class="row"><span>Giá/giờ:</span><span>{{.Rate}}</span></div>
<div class="row bold"><span>Tiền bàn:</span><span>{{.TimeTotal}}</span></div>
{{- if .HasServices}}
<div class="sep"></div>
<div class="bold">DỊCH VỤ:</div>
<div class="detail">{{.ServicesDetail}}</div>
<div class="row bold"><span>Tiền dịch vụ:</span><span>{{.ServiceTotal}}</span></div>
{{- end}}
<div class="sep"></div>
<div class="row"><span>Tạm tính:</span><span>{{.Subtotal}}</span></div>
{{- if .Discount}}
<div class="row"><span>Giảm giá:</span><span>-{{.Discount}}</span></div>
{{- end}}
<div class="row total"><span>TỔNG TIỀN:</span><span>{{.Amount}}</span></div>
<div class="sep"></div>
<div class="center">
<div>Cảm ơn quý khách!</div>
<div>Hẹn gặp lại!</div>
<div>In lúc: {{.PrintedAt}}</div>
</div>
</div>
</body>
</html>
`))

type pageData struct {
	Shop           Shop
	Number         string
	TableName      string
	CustomerName   string
	CreatedAt      string
	Start          string
	End            string
	Duration       string
	Rate           string
	TimeTotal      string
	HasServices    bool
	ServicesDetail string
	ServiceTotal   string
	Subtotal       string
	Discount       string
	Amount         string
	PrintedAt      string
}

// HTML renders the full Vietnamese receipt as a self-contained page.
func HTML(inv *models.Invoice, shop Shop, printedAt time.Time) ([]byte, error) {
	data := pageData{
		Shop:           shop.orDefault(),
		Number:         locale.InvoiceNumber(inv.ID),
		TableName:      inv.TableName,
		CustomerName:   inv.CustomerName,
		CreatedAt:      locale.DateTime(inv.CreatedAt),
		Start:          locale.DateTime(inv.StartTime),
		End:            locale.DateTime(inv.EndTime),
		Duration:       locale.Duration(inv.PlayDurationMinutes),
		Rate:           locale.Currency(inv.HourlyRate),
		TimeTotal:      locale.Currency(inv.TimeTotal),
		HasServices:    inv.HasServices(),
		ServicesDetail: inv.ServicesDetail,
		ServiceTotal:   locale.Currency(inv.ServiceTotal),
		Subtotal:       locale.Currency(inv.Subtotal()),
		Amount:         locale.Currency(inv.Amount),
		PrintedAt:      locale.Stamp(printedAt),
	}
	if inv.Discount.IsPositive() {
		data.Discount = locale.Currency(inv.Discount)
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Document is one invoice rendered for every transport.
type Document struct {
	Invoice  *models.Invoice
	Commands []byte
	HTML     []byte
}

func Build(inv *models.Invoice, shop Shop, printedAt time.Time) (*Document, error) {
	html, err := HTML(inv, shop, printedAt)
	if err != nil {
		return nil, err
	}
	return &Document{
		Invoice:  inv,
		Commands: ESCPOS(inv, shop, printedAt),
		HTML:     html,
	}, nil
}
