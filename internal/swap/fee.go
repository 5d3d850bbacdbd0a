package swap

import (
	"math/big"

	"github.com/exo9planet/SubWallet-Extension/internal/amount"
)

type FeeType string

const (
	FeeTypeNetwork  FeeType = "NETWORK_FEE"
	FeeTypePlatform FeeType = "PLATFORM_FEE"
	FeeTypeWallet   FeeType = "WALLET_FEE"
)

// FeeComponent is one priced sub-fee of a step, in base units of
// TokenSlug.
type FeeComponent struct {
	Type   FeeType `json:"type"`
	Amount string  `json:"amount"`
	Token  string  `json:"token"`
}

// FeeInfo is the full fee estimate of one step: its components, the
// token fees are paid in by default, and the tokens a user may pay
// them in instead.
type FeeInfo struct {
	Components      []FeeComponent `json:"components"`
	DefaultFeeToken string         `json:"default_fee_token"`
	FeeOptions      []string       `json:"fee_options,omitempty"`
}

// TotalForToken sums the components priced in token. Malformed
// component amounts are skipped; construction is the place they are
// rejected.
func (f FeeInfo) TotalForToken(token string) *big.Int {
	total := new(big.Int)
	for _, component := range f.Components {
		if component.Token != token {
			continue
		}
		value, err := amount.Parse(component.Amount)
		if err != nil {
			continue
		}
		total.Add(total, value)
	}
	return total
}

// SumFeesByToken aggregates a path's per-step fees into one total per
// fee token, keyed by token slug.
func SumFeesByToken(fees []FeeInfo) map[string]*big.Int {
	totals := make(map[string]*big.Int)
	for _, fee := range fees {
		for _, component := range fee.Components {
			value, err := amount.Parse(component.Amount)
			if err != nil {
				continue
			}
			if _, ok := totals[component.Token]; !ok {
				totals[component.Token] = new(big.Int)
			}
			totals[component.Token].Add(totals[component.Token], value)
		}
	}
	return totals
}
