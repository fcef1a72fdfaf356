// Package money holds currency arithmetic for bill amounts.
//
// Amounts are whole rupees at the API boundary. Intermediate percentage math
// runs on decimals so values like 3000*33/100 stay exact before rounding.
package money

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var hundred = decimal.NewFromInt(100)

var printer = message.NewPrinter(language.MustParse("en-IN"))

// Percent returns pct percent of amount. Non-finite inputs yield 0.
func Percent(amount, pct float64) float64 {
	if !finite(amount) || !finite(pct) {
		return 0
	}
	f, _ := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(pct)).
		Div(hundred).
		Float64()
	return f
}

// Round rounds to the nearest whole currency unit, halves away from zero.
// NaN and ±Inf round to 0.
func Round(v float64) int64 {
	if !finite(v) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(0).IntPart()
}

// Ratio returns part/whole as a float, or 0 when whole is zero.
func Ratio(part, whole float64) float64 {
	if whole == 0 || !finite(part) || !finite(whole) {
		return 0
	}
	f, _ := decimal.NewFromFloat(part).Div(decimal.NewFromFloat(whole)).Float64()
	return f
}

// FormatINR renders a rupee amount with locale digit grouping, e.g. "₹1,500".
func FormatINR(v float64) string {
	return "₹" + printer.Sprintf("%d", Round(v))
}

// finite reports whether v can be represented as a decimal.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
