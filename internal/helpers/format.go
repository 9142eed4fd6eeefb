package helpers

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var currencySymbols = map[string]string{
	"IDR": "Rp",
	"USD": "$",
	"SGD": "S$",
	"MYR": "RM",
}

// FormatCurrency renders an amount as whole currency units with the locale's
// digit grouping, e.g. "Rp 4.950.000" for id-ID.
func FormatCurrency(amount decimal.Decimal, locale, currency string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Indonesian
	}
	symbol, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		symbol = strings.ToUpper(currency)
	}

	whole := amount.Round(0)
	sign := ""
	if whole.IsNegative() {
		sign = "-"
		whole = whole.Neg()
	}

	p := message.NewPrinter(tag)
	return sign + symbol + " " + p.Sprint(number.Decimal(whole.IntPart(), number.Scale(0)))
}

// FormatIDR is FormatCurrency for the default studio locale.
func FormatIDR(amount decimal.Decimal) string {
	return FormatCurrency(amount, "id-ID", "IDR")
}
