// Package locale formats money, clock and date values the way the club's
// staff read them (vi-VN), plus an ASCII fold for thermal printer code pages.
package locale

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	dateTimeLayout = "15:04 02/01/2006"
	stampLayout    = "15:04:05 02/01/2006"
)

var printer = message.NewPrinter(language.Vietnamese)

// Grouped rounds to whole dong and groups thousands with dots: 120000 -> "120.000".
func Grouped(amount decimal.Decimal) string {
	return printer.Sprintf("%d", amount.Round(0).IntPart())
}

// Currency is the on-screen money form: "120.000 ₫".
func Currency(amount decimal.Decimal) string {
	return Grouped(amount) + " ₫"
}

// ASCIICurrency is the money form for the thermal channel: "120.000d".
func ASCIICurrency(amount decimal.Decimal) string {
	return Grouped(amount) + "d"
}

// Clock renders elapsed minutes as zero-padded HH:MM. 125 -> "02:05".
func Clock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Duration renders minutes as "{h}h {m}m".
func Duration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// LongDuration is the Vietnamese form used on screen: "2 giờ 5 phút".
func LongDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%d giờ %d phút", minutes/60, minutes%60)
}

func DateTime(t time.Time) string {
	return t.Local().Format(dateTimeLayout)
}

// Stamp is DateTime with seconds, used for print timestamps.
func Stamp(t time.Time) string {
	return t.Local().Format(stampLayout)
}

// InvoiceNumber renders an invoice id as "#000042".
func InvoiceNumber(id uint) string {
	return fmt.Sprintf("#%06d", id)
}

// Fold strips Vietnamese diacritics and replaces anything left outside
// printable ASCII with '?'. Safe for concurrent use.
func Fold(s string) string {
	s = strings.NewReplacer("đ", "d", "Đ", "D").Replace(s)
	// a transform.Chain keeps state, so each call gets its own
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || (r >= 0x20 && r < 0x7f) {
			return r
		}
		return '?'
	}, out)
}
