package swap

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/exo9planet/SubWallet-Extension/internal/amount"
	"github.com/exo9planet/SubWallet-Extension/internal/balance"
	"github.com/exo9planet/SubWallet-Extension/internal/chain"
	"github.com/exo9planet/SubWallet-Extension/internal/swaperr"
)

// Base implements the cross-venue-invariant parts of a handler: generic
// optimal-process assembly from an ordered generator list, and the
// validation routines for top-up and submit steps. Venue handlers hold
// one by composition.
type Base struct {
	provider string
	chains   chain.Service
	balances balance.Service
	log      *zap.Logger
	now      func() time.Time
}

func NewBase(provider string, chains chain.Service, balances balance.Service, log *zap.Logger) *Base {
	if log == nil {
		log = zap.NewNop()
	}
	return &Base{
		provider: provider,
		chains:   chains,
		balances: balances,
		log:      log,
		now:      time.Now,
	}
}

func (b *Base) Provider() string { return b.provider }

// GenerateOptimalProcess assembles a path by running the generators
// strictly in order. A generator error does not abort the call: the
// path accumulated so far is returned and the failure logged, leaving
// the caller to re-derive from quote staleness before submission.
// Regardless of generator outcomes, Steps[0]/TotalFee[0] stay the fixed
// defaults and the index alignment holds for every appended step.
func (b *Base) GenerateOptimalProcess(ctx context.Context, params OptimalProcessParams, generators []StepGenerator) *Path {
	path := NewPath(b.provider)
	for i, generate := range generators {
		step, fee, err := generate(ctx, params)
		if err != nil {
			b.log.Error("step generation failed, returning partial path",
				zap.String("provider", b.provider),
				zap.Int("generator", i),
				zap.Int("steps", len(path.Steps)),
				zap.Error(err))
			return path
		}
		if step == nil {
			continue
		}
		if fee == nil {
			fee = &FeeInfo{Components: []FeeComponent{}}
		}
		path.Append(*step, *fee)
	}
	return path
}

// ValidateXcmStep checks that a cross-chain top-up step can still
// succeed: after sending the shortfall plus the step fee, the top-up
// source account must keep at least the alternative asset's minimum
// holding floor, or the transfer would strand funds or fail outright.
func (b *Base) ValidateXcmStep(ctx context.Context, params ValidateProcessParams, stepIndex int) []*swaperr.Error {
	if params.Path == nil || stepIndex < 0 || stepIndex >= len(params.Path.Steps) {
		return []*swaperr.Error{swaperr.New(swaperr.KindInternalError, "top-up step index out of range")}
	}
	step := params.Path.Steps[stepIndex]
	if step.Type != StepTypeXcm || step.Xcm == nil {
		return []*swaperr.Error{swaperr.New(swaperr.KindInternalError, "step is not a cross-chain transfer")}
	}
	if params.Request == nil {
		return []*swaperr.Error{swaperr.New(swaperr.KindInternalError, "missing swap request")}
	}

	fromAmount, err := amount.Parse(params.Request.FromAmount)
	if err != nil {
		return []*swaperr.Error{asEngineError(err)}
	}
	fromAsset, err := b.chains.AssetBySlug(params.Request.Pair.From)
	if err != nil {
		return []*swaperr.Error{asEngineError(err)}
	}
	fromBalance, err := b.freeBalance(ctx, params.Request.Address, fromAsset)
	if err != nil {
		return []*swaperr.Error{asEngineError(err)}
	}

	// Shortfall on the swap chain. Nothing to top up means the step is
	// valid by construction.
	shortfall := new(big.Int).Sub(fromAmount, fromBalance)
	if shortfall.Sign() <= 0 {
		return nil
	}

	altAsset, err := b.chains.AssetBySlug(step.Xcm.OriginAsset)
	if err != nil {
		return []*swaperr.Error{asEngineError(err)}
	}
	altBalance, err := b.freeBalance(ctx, params.Request.Address, altAsset)
	if err != nil {
		return []*swaperr.Error{asEngineError(err)}
	}
	altMin, err := amount.Parse(altAsset.MinAmount)
	if err != nil {
		return []*swaperr.Error{asEngineError(err)}
	}
	stepFee := params.Path.TotalFee[stepIndex].TotalForToken(altAsset.Slug)

	// Post-transfer balance of the top-up source must not fall below
	// the chain's minimum holding floor.
	remaining := new(big.Int).Sub(altBalance, new(big.Int).Add(shortfall, stepFee))
	if remaining.Cmp(altMin) >= 0 {
		return nil
	}

	maxAffordable := new(big.Int).Add(fromBalance, altBalance)
	maxAffordable.Sub(maxAffordable, stepFee)
	maxAffordable.Sub(maxAffordable, altMin)
	if maxAffordable.Sign() < 0 {
		maxAffordable.SetInt64(0)
	}
	formatted := amount.FormatDecimal(maxAffordable.String(), fromAsset.Decimals)
	return []*swaperr.Error{
		swaperr.New(swaperr.KindNotEnoughBalance,
			fmt.Sprintf("not enough %s to top up the swap, amount must be no more than %s %s",
				altAsset.Symbol, formatted, fromAsset.Symbol)).
			WithMeta("max_amount", formatted).
			WithMeta("symbol", fromAsset.Symbol),
	}
}

// ValidateSubmitStep re-checks, immediately before submission, that the
// final swap call can succeed: the quote must still be alive, the
// balance must cover the venue minimum, the amount must stay below the
// spendable ceiling, and a supplied recipient must match the
// destination chain's address family. All failures are collected; the
// caller decides how to surface them.
func (b *Base) ValidateSubmitStep(ctx context.Context, params ValidateProcessParams, minSwapAmount *big.Int) []*swaperr.Error {
	var errs []*swaperr.Error

	if params.Request == nil || params.Quote == nil {
		return []*swaperr.Error{swaperr.New(swaperr.KindInternalError, "missing request or quote")}
	}
	if params.Quote.Expired(b.now()) {
		errs = append(errs, swaperr.New(swaperr.KindQuoteTimeout, "swap quote expired, request a fresh quote"))
	}

	fromAmount, err := amount.Parse(params.Request.FromAmount)
	if err != nil {
		return append(errs, asEngineError(err))
	}
	fromAsset, err := b.chains.AssetBySlug(params.Request.Pair.From)
	if err != nil {
		return append(errs, asEngineError(err))
	}
	toAsset, err := b.chains.AssetBySlug(params.Request.Pair.To)
	if err != nil {
		return append(errs, asEngineError(err))
	}
	fromBalance, err := b.freeBalance(ctx, params.Request.Address, fromAsset)
	if err != nil {
		return append(errs, asEngineError(err))
	}

	if minSwapAmount != nil && fromBalance.Cmp(minSwapAmount) <= 0 {
		minFormatted := amount.FormatDecimal(minSwapAmount.String(), fromAsset.Decimals)
		errs = append(errs, swaperr.New(swaperr.KindSwapNotEnoughBalance,
			fmt.Sprintf("balance is below the venue minimum of %s %s", minFormatted, fromAsset.Symbol)).
			WithMeta("min_amount", minFormatted).
			WithMeta("symbol", fromAsset.Symbol))
	}

	minKeep, err := amount.Parse(fromAsset.MinAmount)
	if err != nil {
		return append(errs, asEngineError(err))
	}
	maxMovable := new(big.Int).Sub(fromBalance, minKeep)
	if fromAmount.Cmp(maxMovable) >= 0 {
		maxFormatted := amount.FormatDecimal(maxMovable.String(), fromAsset.Decimals)
		errs = append(errs, swaperr.New(swaperr.KindSwapExceedAllowance,
			fmt.Sprintf("amount must be below %s %s to keep the account above its minimum balance", maxFormatted, fromAsset.Symbol)).
			WithMeta("max_amount", maxFormatted).
			WithMeta("symbol", fromAsset.Symbol))
	}

	if params.Recipient != "" {
		destination, err := b.chains.InfoByKey(toAsset.OriginChain)
		if err != nil {
			return append(errs, asEngineError(err))
		}
		if !chain.Compatible(params.Recipient, destination.AddressFormat) {
			errs = append(errs, swaperr.New(swaperr.KindInvalidRecipient,
				fmt.Sprintf("recipient address is not valid on %s", destination.Name)))
		}
	}
	return errs
}

// ValidateApprovalStep is a deliberate no-op: approval checks are
// deferred venue policy. The hook stays so a venue can supply real
// checks without changing the pipeline shape.
func (b *Base) ValidateApprovalStep(_ context.Context, _ ValidateProcessParams, _ int) []*swaperr.Error {
	return nil
}

// ValidateFeeTokenStep is a deliberate no-op, matching
// ValidateApprovalStep.
func (b *Base) ValidateFeeTokenStep(_ context.Context, _ ValidateProcessParams, _ int) []*swaperr.Error {
	return nil
}

func (b *Base) freeBalance(ctx context.Context, address string, asset chain.Asset) (*big.Int, error) {
	free, err := b.balances.FreeBalance(ctx, address, asset.OriginChain, asset.Slug)
	if err != nil {
		return nil, swaperr.Wrap(swaperr.KindUnknown, fmt.Sprintf("fetch %s balance", asset.Slug), err)
	}
	return amount.Parse(free.Value)
}

// SetClock overrides the time source. Tests only.
func (b *Base) SetClock(now func() time.Time) {
	if now != nil {
		b.now = now
	}
}

func asEngineError(err error) *swaperr.Error {
	if typed, ok := swaperr.As(err); ok {
		return typed
	}
	return swaperr.Wrap(swaperr.KindUnknown, "collaborator call failed", err)
}
