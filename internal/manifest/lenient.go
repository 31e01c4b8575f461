package manifest

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// The parsers below never fail. Each returns the zero value and
// defaulted=true when raw does not parse as its target type.

var (
	currencyCleaner   = strings.NewReplacer("$", "", ",", "")
	percentageCleaner = strings.NewReplacer("%", "")
)

// ParseCategory parses a category code. Values outside 0..255 default to 0.
func ParseCategory(raw string) (uint8, bool) {
	v, err := strconv.ParseUint(strings.TrimPrefix(raw, "+"), 10, 8)
	if err != nil {
		return 0, true
	}
	return uint8(v), false
}

// ParseQuantity parses a plain real number.
func ParseQuantity(raw string) (float64, bool) {
	return parseReal(raw)
}

// ParseCurrency parses an amount such as "$1,234.50". Every "$" and "," is
// removed first, so "1234.50" and "$1,234.50" give the same value.
func ParseCurrency(raw string) (float64, bool) {
	d, err := decimal.NewFromString(currencyCleaner.Replace(raw))
	if err != nil {
		return 0, true
	}
	return d.InexactFloat64(), false
}

// ParsePercentage parses a rate such as "45%". The value is not scaled:
// "45%" is 45, not 0.45.
func ParsePercentage(raw string) (float64, bool) {
	return parseReal(percentageCleaner.Replace(raw))
}

// parseReal rejects NaN and infinities; they cannot be encoded as JSON.
func parseReal(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, true
	}
	return v, false
}
