package locale

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClock(t *testing.T) {
	assert.Equal(t, "02:05", Clock(125))
	assert.Equal(t, "00:00", Clock(0))
	assert.Equal(t, "00:59", Clock(59))
	assert.Equal(t, "10:00", Clock(600))
	assert.Equal(t, "00:00", Clock(-3))
}

func TestDuration(t *testing.T) {
	assert.Equal(t, "2h 5m", Duration(125))
	assert.Equal(t, "0h 45m", Duration(45))
	assert.Equal(t, "2 giờ 5 phút", LongDuration(125))
}

func TestMoney(t *testing.T) {
	amount := decimal.NewFromInt(120000)
	assert.Equal(t, "120.000", Grouped(amount))
	assert.Equal(t, "120.000 ₫", Currency(amount))
	assert.Equal(t, "120.000d", ASCIICurrency(amount))
	assert.Equal(t, "1.234.567", Grouped(decimal.NewFromInt(1234567)))
	assert.Equal(t, "500", Grouped(decimal.NewFromInt(500)))
	assert.Equal(t, "41.667", Grouped(decimal.RequireFromString("41666.6667")))
}

func TestInvoiceNumber(t *testing.T) {
	assert.Equal(t, "#000042", InvoiceNumber(42))
	assert.Equal(t, "#1234567", InvoiceNumber(1234567))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "QUAN BI-A TUAN ANH", Fold("QUÁN BI-A TUẤN ANH"))
	assert.Equal(t, "HOA DON THANH TOAN", Fold("HÓA ĐƠN THANH TOÁN"))
	assert.Equal(t, "123 Duong ABC, Quan XYZ", Fold("123 Đường ABC, Quận XYZ"))
	assert.Equal(t, "Cam on quy khach!", Fold("Cảm ơn quý khách!"))
	assert.Equal(t, "a?b", Fold("a₫b"))
}

func TestDateTimeUsesLocalZone(t *testing.T) {
	ts := time.Date(2026, 10, 16, 9, 5, 7, 0, time.Local)
	assert.Equal(t, "09:05 16/10/2026", DateTime(ts))
	assert.Equal(t, "09:05:07 16/10/2026", Stamp(ts))
}

func TestFoldConcurrent(t *testing.T) {
	inputs := []string{
		"QUÁN BI-A TUẤN ANH",
		"123 Đường ABC, Quận XYZ",
		"Nguyễn Văn Hưởng",
		"Cảm ơn quý khách!",
	}
	want := make([]string, len(inputs))
	for i, in := range inputs {
		want[i] = Fold(in)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				k := (g + i) % len(inputs)
				if got := Fold(inputs[k]); got != want[k] {
					errs <- got
					return
				}
			}
		}(g)
	}
	wg.Wait()
	close(errs)

	for got := range errs {
		t.Errorf("unexpected fold result %q", got)
	}
	assert.Equal(t, "QUAN BI-A TUAN ANH", want[0])
}
