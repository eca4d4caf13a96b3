package vend

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
)

// DefaultCurrency is the currency used when none is given.
const DefaultCurrency = "NGN"

// Display layouts.
const (
	DateLayout     = "Jan 02, 2006"
	DateTimeLayout = "Jan 02, 2006 15:04"
)

var currencySymbols = map[string]string{
	"NGN": "₦",
	"USD": "$",
	"GBP": "£",
	"EUR": "€",
}

// FormatCurrency renders amount with the currency symbol, digit grouping
// and at most two decimals. Unknown currencies are prefixed with their code.
func FormatCurrency(amount float64, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	currency = strings.ToUpper(currency)

	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency + " "
	}

	rounded := math.Round(amount*100) / 100
	sign := ""
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}
	return sign + symbol + humanize.Commaf(rounded)
}

// FormatNumber renders n with digit grouping.
func FormatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
		return humanize.Comma(int64(n))
	}
	return humanize.Commaf(math.Round(n*1000) / 1000)
}

// FormatPhoneNumber groups local phone numbers for display. Numbers that
// are not 10 digits, or 11 digits starting with 0, are returned unchanged.
func FormatPhoneNumber(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)

	switch {
	case len(digits) == 11 && digits[0] == '0':
		return digits[:4] + " " + digits[4:7] + " " + digits[7:]
	case len(digits) == 10:
		return digits[:3] + " " + digits[3:6] + " " + digits[6:]
	default:
		return phone
	}
}

// FormatDate renders t as "Jan 02, 2006".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDateTime renders t as "Jan 02, 2006 15:04".
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// FormatRelativeTime renders t relative to now, e.g. "3 minutes ago".
func FormatRelativeTime(t time.Time) string {
	return humanize.Time(t)
}

// FormatRelativeTimeFrom renders t relative to now.
func FormatRelativeTimeFrom(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}
