package checker

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// First integer token with an optional 2-digit fraction, after commas are
// stripped. Currency symbols and surrounding text are ignored.
var priceRe = regexp.MustCompile(`([0-9]+(?:\.[0-9]{2})?)`)

// ParsePrice turns currency-formatted text into a decimal amount. It returns
// an invalid NullDecimal on empty input, no numeric match, or parse failure;
// it never errors.
func ParsePrice(raw string) decimal.NullDecimal {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return decimal.NullDecimal{}
	}

	m := priceRe.FindStringSubmatch(s)
	if m == nil {
		return decimal.NullDecimal{}
	}

	amount, err := decimal.NewFromString(m[1])
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: amount, Valid: true}
}
