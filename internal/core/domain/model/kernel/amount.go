package kernel

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// AmountTolerance is the largest difference at which two money values are
// treated as equal. It is half of the smallest currency unit.
const AmountTolerance = 0.005

// amountEpsilon absorbs float noise when one amount must not exceed another.
const amountEpsilon = 1e-9

var amountPrinter = message.NewPrinter(language.English)

// AmountsEqual compares two money values within AmountTolerance.
func AmountsEqual(a, b float64) bool {
	return math.Abs(a-b) < AmountTolerance
}

// AmountExceeds reports whether a is larger than limit. Unlike AmountsEqual it
// has no half-cent slack: 10.004 exceeds 10.00.
func AmountExceeds(a, limit float64) bool {
	return a-limit > amountEpsilon
}

// FormatAmount renders a money value with grouping and two decimals,
// e.g. 1234.5 becomes "1,234.50".
func FormatAmount(v float64) string {
	return amountPrinter.Sprintf("%.2f", v)
}
