package calculator

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DisplayDigits is the maximum number of fractional digits FormatResult
// writes.
const DisplayDigits = 16

// FormatResult formats a result for a calculator display: digits grouped in
// thousands and at most DisplayDigits fractional digits, so that
// 0.1+0.2 shows as 0.3.
func FormatResult(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	}
	// Round in decimal.
	v, _ = strconv.ParseFloat(strconv.FormatFloat(v, 'f', DisplayDigits, 64), 64)
	if v == 0 {
		// No negative zero.
		v = 0
	}
	p := message.NewPrinter(language.English)
	return p.Sprint(number.Decimal(v, number.MaxFractionDigits(DisplayDigits)))
}
