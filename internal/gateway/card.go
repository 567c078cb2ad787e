package gateway

import (
	"strings"

	"github.com/nexusai/billing/internal/types"
)

const (
	minCardLength = 13
	maxCardLength = 19
)

// NormalizeCardNumber strips everything that is not a digit
func NormalizeCardNumber(number string) string {
	var b strings.Builder
	b.Grow(len(number))
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateCardNumber reports whether number passes the Luhn mod 10 check
// after separators are stripped. Lengths outside 13..19 digits are rejected.
func ValidateCardNumber(number string) bool {
	digits := NormalizeCardNumber(number)
	if len(digits) < minCardLength || len(digits) > maxCardLength {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// ClassifyBrand maps a card number to its network by prefix
func ClassifyBrand(number string) types.CardBrand {
	digits := NormalizeCardNumber(number)

	switch {
	case strings.HasPrefix(digits, "4"):
		return types.CardBrandVisa
	case len(digits) >= 2 && digits[0] == '5' && digits[1] >= '1' && digits[1] <= '5':
		return types.CardBrandMasterCard
	case strings.HasPrefix(digits, "34"), strings.HasPrefix(digits, "37"):
		return types.CardBrandAmex
	case strings.HasPrefix(digits, "6011"), strings.HasPrefix(digits, "65"):
		return types.CardBrandDiscover
	default:
		return types.CardBrandUnknown
	}
}

// LastFour returns the last four digits of a card number
func LastFour(number string) string {
	digits := NormalizeCardNumber(number)
	if len(digits) < 4 {
		return digits
	}
	return digits[len(digits)-4:]
}
