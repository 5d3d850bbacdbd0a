package amount

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/exo9planet/SubWallet-Extension/internal/swaperr"
)

// Parse converts a base-unit integer string into a big.Int. Negative
// values and anything that is not a plain decimal integer are rejected;
// all amount math in the engine runs on the results of this function.
func Parse(baseUnits string) (*big.Int, error) {
	clean := strings.TrimSpace(baseUnits)
	if clean == "" {
		return nil, swaperr.New(swaperr.KindInternalError, "empty base-units amount")
	}
	value, ok := new(big.Int).SetString(clean, 10)
	if !ok {
		return nil, swaperr.New(swaperr.KindInternalError, "amount must be a base-units integer string")
	}
	if value.Sign() < 0 {
		return nil, swaperr.New(swaperr.KindInternalError, "amount must be non-negative")
	}
	return value, nil
}

// FormatDecimal renders a base-unit integer string in the asset's
// decimal precision, trimming trailing fractional zeros.
func FormatDecimal(baseUnits string, decimals int) string {
	n, ok := new(big.Int).SetString(strings.TrimSpace(baseUnits), 10)
	if !ok {
		return baseUnits
	}
	if decimals <= 0 {
		return n.String()
	}

	s := n.String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}
	intPart := s[:len(s)-decimals]
	fracPart := strings.TrimRight(s[len(s)-decimals:], "0")
	out := intPart
	if fracPart != "" {
		out = intPart + "." + fracPart
	}
	if neg {
		return "-" + out
	}
	return out
}

// Rate derives the implied price of a quote: toAmount/fromAmount with
// both sides rescaled by their declared decimals. Display math only;
// validation never compares rates.
func Rate(fromAmount, toAmount *big.Int, fromDecimals, toDecimals int) decimal.Decimal {
	if fromAmount == nil || toAmount == nil || fromAmount.Sign() == 0 {
		return decimal.Zero
	}
	from := decimal.NewFromBigInt(fromAmount, -int32(fromDecimals))
	to := decimal.NewFromBigInt(toAmount, -int32(toDecimals))
	return to.DivRound(from, 12)
}
