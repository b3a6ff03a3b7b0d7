// Package render turns aggregation results into the chat-facing text:
// money strings, day-grouped reports and ASCII charts. Everything here is
// pure formatting.
package render

import (
	"math"
	"strconv"
	"strings"
)

// groupSeparator is a non-breaking space so chat clients never wrap a
// number across lines.
const groupSeparator = "\u00a0"

// Money formats an amount with two decimals, comma as the decimal
// separator, non-breaking thousands grouping and the ruble marker.
//
//	Money(0)         -> "0,00 ₽"
//	Money(1234567.5) -> "1 234 567,50 ₽"
func Money(v float64) string {
	negative := v < 0
	fixed := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(groupSeparator)
		}
		b.WriteRune(digit)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	b.WriteString(" ₽")
	return b.String()
}
