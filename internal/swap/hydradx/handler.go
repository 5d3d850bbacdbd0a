package hydradx

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/exo9planet/SubWallet-Extension/internal/amount"
	"github.com/exo9planet/SubWallet-Extension/internal/balance"
	"github.com/exo9planet/SubWallet-Extension/internal/chain"
	"github.com/exo9planet/SubWallet-Extension/internal/routing"
	"github.com/exo9planet/SubWallet-Extension/internal/swap"
	"github.com/exo9planet/SubWallet-Extension/internal/swaperr"
)

const ProviderName = "hydradx"

// Fee dry-runs drift between estimation and inclusion; the top-up fee
// is inflated by 20% to absorb that.
const xcmFeeMarginNum, xcmFeeMarginDen = 6, 5

// Config is the venue's static configuration.
type Config struct {
	// Chain is the venue's fixed operating chain; both assets of a pair
	// must originate there.
	Chain string
	// QuoteTimeout bounds quote validity. Zero means the global default.
	QuoteTimeout time.Duration
	// MinSwapAmount is the venue's minimum swap size in from-asset base
	// units. Empty means the from-asset's minimum holding floor.
	MinSwapAmount string
	// AlternativeAssets maps a swappable asset slug to the asset, on
	// another chain, that can top it up via XCM when the balance on the
	// operating chain is short.
	AlternativeAssets map[string]string
	// InitTimeout bounds how long Init waits for the venue's on-chain
	// route state to become ready.
	InitTimeout time.Duration
}

// Handler is the Hydration venue handler. It owns a readiness flag set
// by Init once the node connection for the operating chain is
// established; quote and plan generation fail until then. Handlers keep
// no other mutable state across requests.
type Handler struct {
	base     *swap.Base
	chains   chain.Service
	balances balance.Service
	router   routing.Router
	log      *zap.Logger
	cfg      Config
	now      func() time.Time

	mu    sync.Mutex
	ready bool
	api   chain.SubstrateAPI
}

func New(chains chain.Service, balances balance.Service, router routing.Router, log *zap.Logger, cfg Config) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Chain == "" {
		cfg.Chain = "hydradx"
	}
	if cfg.InitTimeout <= 0 {
		cfg.InitTimeout = 30 * time.Second
	}
	return &Handler{
		base:     swap.NewBase(ProviderName, chains, balances, log),
		chains:   chains,
		balances: balances,
		router:   router,
		log:      log.With(zap.String("provider", ProviderName)),
		cfg:      cfg,
		now:      time.Now,
	}
}

func (h *Handler) Provider() string { return ProviderName }

// Init establishes the venue's on-chain route-finding state: the
// operating chain is enabled and the node connection awaited with
// exponential backoff. Init is idempotent; concurrent callers
// serialize on the readiness flag.
func (h *Handler) Init(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ready {
		return nil
	}

	if err := h.chains.EnableChain(h.cfg.Chain); err != nil {
		return swaperr.Wrap(swaperr.KindUnknown, fmt.Sprintf("enable chain %s", h.cfg.Chain), err)
	}
	api, err := h.chains.SubstrateAPI(h.cfg.Chain)
	if err != nil {
		return swaperr.Wrap(swaperr.KindUnknown, fmt.Sprintf("connect chain %s", h.cfg.Chain), err)
	}

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, api.IsReady(ctx)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(h.cfg.InitTimeout),
	)
	if err != nil {
		return swaperr.Wrap(swaperr.KindUnknown, fmt.Sprintf("chain %s not ready", h.cfg.Chain), err)
	}

	h.api = api
	h.ready = true
	h.log.Info("venue initialized", zap.String("chain", h.cfg.Chain))
	return nil
}

func (h *Handler) isReady() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ready
}

// ValidateRequest checks a request against the venue's constraints and
// computes the maximum swappable amount (balance minus the minimum
// holding floor) for UI hinting. Identical inputs against unchanged
// external state validate identically.
func (h *Handler) ValidateRequest(ctx context.Context, req *swap.Request) (swap.RequestValidation, error) {
	if req == nil {
		return swap.RequestValidation{}, swaperr.New(swaperr.KindInternalError, "missing swap request")
	}

	fromAsset, err := h.chains.AssetBySlug(req.Pair.From)
	if err != nil {
		return swap.RequestValidation{}, err
	}
	toAsset, err := h.chains.AssetBySlug(req.Pair.To)
	if err != nil {
		return swap.RequestValidation{}, err
	}
	if fromAsset.OriginChain != h.cfg.Chain || toAsset.OriginChain != h.cfg.Chain {
		return swap.RequestValidation{}, swaperr.New(swaperr.KindAssetNotSupported,
			fmt.Sprintf("pair %s is not tradable on %s", req.Pair.Key(), h.cfg.Chain))
	}
	if fromAsset.OnChainID == "" || toAsset.OnChainID == "" {
		return swap.RequestValidation{}, swaperr.New(swaperr.KindUnknown,
			fmt.Sprintf("pair %s has no on-chain id on %s", req.Pair.Key(), h.cfg.Chain))
	}

	fromAmount, err := amount.Parse(req.FromAmount)
	if err != nil {
		return swap.RequestValidation{}, err
	}
	if fromAmount.Sign() == 0 {
		return swap.RequestValidation{}, swaperr.New(swaperr.KindAmountCannotBeZero, "swap amount must be greater than zero")
	}

	free, err := h.balances.FreeBalance(ctx, req.Address, fromAsset.OriginChain, fromAsset.Slug)
	if err != nil {
		return swap.RequestValidation{}, swaperr.Wrap(swaperr.KindUnknown, fmt.Sprintf("fetch %s balance", fromAsset.Slug), err)
	}
	freeValue, err := amount.Parse(free.Value)
	if err != nil {
		return swap.RequestValidation{}, err
	}
	minKeep, err := amount.Parse(fromAsset.MinAmount)
	if err != nil {
		return swap.RequestValidation{}, err
	}

	maxSwappable := new(big.Int).Sub(freeValue, minKeep)
	if maxSwappable.Sign() < 0 {
		maxSwappable.SetInt64(0)
	}
	if fromAmount.Cmp(maxSwappable) >= 0 {
		formatted := amount.FormatDecimal(maxSwappable.String(), fromAsset.Decimals)
		return swap.RequestValidation{}, swaperr.New(swaperr.KindSwapExceedAllowance,
			fmt.Sprintf("amount must be below %s %s", formatted, fromAsset.Symbol)).
			WithMeta("max_amount", formatted).
			WithMeta("symbol", fromAsset.Symbol)
	}

	return swap.RequestValidation{MaxSwappable: maxSwappable}, nil
}

// GetQuote asks the routing provider for a best-execution route and
// wraps it into a time-bounded quote.
func (h *Handler) GetQuote(ctx context.Context, req *swap.Request) (*swap.Quote, error) {
	if !h.isReady() {
		return nil, swaperr.New(swaperr.KindUnknown, "venue is not initialized")
	}
	if _, err := h.ValidateRequest(ctx, req); err != nil {
		return nil, h.enrich(err)
	}

	fromAsset, err := h.chains.AssetBySlug(req.Pair.From)
	if err != nil {
		return nil, h.enrich(err)
	}
	toAsset, err := h.chains.AssetBySlug(req.Pair.To)
	if err != nil {
		return nil, h.enrich(err)
	}
	fromAmount, err := amount.Parse(req.FromAmount)
	if err != nil {
		return nil, h.enrich(err)
	}

	route, err := h.router.BestRoute(ctx, routing.RouteRequest{
		AssetIn:  fromAsset.OnChainID,
		AssetOut: toAsset.OnChainID,
		AmountIn: fromAmount,
	})
	if err != nil {
		return nil, h.enrich(err)
	}
	if route.AmountOut == nil || route.AmountOut.Sign() <= 0 {
		return nil, swaperr.New(swaperr.KindErrorFetchingQuote, "routing provider returned an empty route")
	}

	timeout := h.cfg.QuoteTimeout
	if timeout <= 0 {
		timeout = swap.DefaultQuoteTimeout
	}

	components := []swap.FeeComponent{}
	if route.NetworkFee != nil && route.NetworkFee.Sign() > 0 {
		components = append(components, swap.FeeComponent{
			Type: swap.FeeTypeNetwork, Amount: route.NetworkFee.String(), Token: "hydradx-NATIVE-HDX",
		})
	}
	if route.TradeFee != nil && route.TradeFee.Sign() > 0 {
		components = append(components, swap.FeeComponent{
			Type: swap.FeeTypePlatform, Amount: route.TradeFee.String(), Token: fromAsset.Slug,
		})
	}

	hops := make([]string, 0, len(route.Hops))
	for _, hop := range route.Hops {
		hops = append(hops, hop.Pool)
	}

	return &swap.Quote{
		Pair:       req.Pair,
		FromAmount: fromAmount.String(),
		ToAmount:   route.AmountOut.String(),
		Rate:       amount.Rate(fromAmount, route.AmountOut, fromAsset.Decimals, toAsset.Decimals),
		Provider:   ProviderName,
		AliveUntil: h.now().Add(timeout),
		Fee: swap.FeeInfo{
			Components:      components,
			DefaultFeeToken: "hydradx-NATIVE-HDX",
			FeeOptions:      []string{"hydradx-NATIVE-HDX", fromAsset.Slug},
		},
		Route: hops,
	}, nil
}

// GenerateOptimalProcess builds the ordered step plan for an accepted
// quote: a cross-chain top-up first if the operating-chain balance is
// short, then the swap submission.
func (h *Handler) GenerateOptimalProcess(ctx context.Context, params swap.OptimalProcessParams) (*swap.Path, error) {
	if !h.isReady() {
		return nil, swaperr.New(swaperr.KindUnknown, "venue is not initialized")
	}
	if params.Request == nil {
		return nil, swaperr.New(swaperr.KindInternalError, "missing swap request")
	}
	return h.base.GenerateOptimalProcess(ctx, params, []swap.StepGenerator{
		h.xcmStep,
		h.submitStep,
	}), nil
}

// xcmStep emits a cross-chain top-up when the operating-chain balance
// cannot cover the requested amount and the pair has a configured
// alternative asset. The transfer fee comes from a dry run against the
// alternative chain, inflated by the safety margin.
func (h *Handler) xcmStep(ctx context.Context, params swap.OptimalProcessParams) (*swap.Step, *swap.FeeInfo, error) {
	req := params.Request
	fromAsset, err := h.chains.AssetBySlug(req.Pair.From)
	if err != nil {
		return nil, nil, err
	}
	fromAmount, err := amount.Parse(req.FromAmount)
	if err != nil {
		return nil, nil, err
	}
	free, err := h.balances.FreeBalance(ctx, req.Address, fromAsset.OriginChain, fromAsset.Slug)
	if err != nil {
		return nil, nil, swaperr.Wrap(swaperr.KindUnknown, fmt.Sprintf("fetch %s balance", fromAsset.Slug), err)
	}
	freeValue, err := amount.Parse(free.Value)
	if err != nil {
		return nil, nil, err
	}

	shortfall := new(big.Int).Sub(fromAmount, freeValue)
	if shortfall.Sign() <= 0 {
		return nil, nil, nil
	}

	altSlug, ok := h.cfg.AlternativeAssets[req.Pair.From]
	if !ok {
		// No top-up source configured; submit validation surfaces the
		// balance problem.
		return nil, nil, nil
	}
	altAsset, err := h.chains.AssetBySlug(altSlug)
	if err != nil {
		return nil, nil, err
	}

	altAPI, err := h.chains.SubstrateAPI(altAsset.OriginChain)
	if err != nil {
		return nil, nil, err
	}
	fee, err := altAPI.TransferFee(ctx, chain.XcmTransferRequest{
		Sender:           req.Address,
		OriginChain:      altAsset.OriginChain,
		DestinationChain: fromAsset.OriginChain,
		AssetSlug:        altAsset.Slug,
		Amount:           shortfall,
	})
	if err != nil {
		return nil, nil, swaperr.Wrap(swaperr.KindUnknown, "dry-run top-up transfer fee", err)
	}
	inflated := new(big.Int).Mul(fee, big.NewInt(xcmFeeMarginNum))
	inflated.Div(inflated, big.NewInt(xcmFeeMarginDen))

	sending := new(big.Int).Add(shortfall, inflated)
	step := &swap.Step{
		Name: fmt.Sprintf("Transfer %s from %s", altAsset.Symbol, altAsset.OriginChain),
		Type: swap.StepTypeXcm,
		Xcm: &swap.XcmMeta{
			SendingValue:     sending.String(),
			OriginAsset:      altAsset.Slug,
			DestinationAsset: fromAsset.Slug,
		},
	}
	feeInfo := &swap.FeeInfo{
		Components: []swap.FeeComponent{
			{Type: swap.FeeTypeNetwork, Amount: inflated.String(), Token: altAsset.Slug},
		},
		DefaultFeeToken: altAsset.Slug,
		FeeOptions:      []string{altAsset.Slug},
	}
	return step, feeInfo, nil
}

// submitStep wraps the accepted quote's fee as the final swap step.
func (h *Handler) submitStep(_ context.Context, params swap.OptimalProcessParams) (*swap.Step, *swap.FeeInfo, error) {
	if params.Quote == nil {
		return nil, nil, swaperr.New(swaperr.KindInternalError, "submit step needs an accepted quote")
	}
	step := &swap.Step{
		Name:   "Swap",
		Type:   swap.StepTypeSubmit,
		Submit: &swap.SubmitMeta{Quote: params.Quote},
	}
	fee := params.Quote.Fee
	return step, &fee, nil
}

// ValidateProcess re-validates every step of a path against live
// balances and quote freshness. All step errors are collected rather
// than stopping at the first.
func (h *Handler) ValidateProcess(ctx context.Context, params swap.ValidateProcessParams) []*swaperr.Error {
	if params.Path == nil {
		return []*swaperr.Error{swaperr.New(swaperr.KindInternalError, "missing swap path")}
	}
	var errs []*swaperr.Error
	for i, step := range params.Path.Steps {
		switch step.Type {
		case swap.StepTypeDefault:
			// Placeholder; nothing to check.
		case swap.StepTypeXcm:
			errs = append(errs, h.base.ValidateXcmStep(ctx, params, i)...)
		case swap.StepTypeTokenApproval:
			errs = append(errs, h.base.ValidateApprovalStep(ctx, params, i)...)
		case swap.StepTypeSetFeeToken:
			errs = append(errs, h.base.ValidateFeeTokenStep(ctx, params, i)...)
		case swap.StepTypeSubmit:
			errs = append(errs, h.base.ValidateSubmitStep(ctx, params, h.minSwapAmount(params))...)
		default:
			errs = append(errs, swaperr.New(swaperr.KindInternalError,
				fmt.Sprintf("unsupported step type %s", step.Type)))
		}
	}
	return errs
}

// SubmitProcess validates the path one last time and hands the swap
// call to the signing/broadcast layer, which is outside this engine.
func (h *Handler) SubmitProcess(ctx context.Context, params swap.ValidateProcessParams) (swap.SubmitStepData, error) {
	if errs := h.ValidateProcess(ctx, params); len(errs) > 0 {
		return swap.SubmitStepData{}, errs[0]
	}
	submit, ok := params.Path.StepByType(swap.StepTypeSubmit)
	if !ok || submit.Submit == nil || submit.Submit.Quote == nil {
		return swap.SubmitStepData{}, swaperr.New(swaperr.KindInternalError, "path has no submit step")
	}

	quote := submit.Submit.Quote
	fromAsset, err := h.chains.AssetBySlug(quote.Pair.From)
	if err != nil {
		return swap.SubmitStepData{}, asTyped(err)
	}
	toAsset, err := h.chains.AssetBySlug(quote.Pair.To)
	if err != nil {
		return swap.SubmitStepData{}, asTyped(err)
	}

	return swap.SubmitStepData{
		Provider: ProviderName,
		Chain:    h.cfg.Chain,
		StepType: swap.StepTypeSubmit,
		Call: map[string]string{
			"pallet":      "router",
			"method":      "sell",
			"asset_in":    fromAsset.OnChainID,
			"asset_out":   toAsset.OnChainID,
			"amount_in":   quote.FromAmount,
			"min_out":     quote.ToAmount,
			"beneficiary": params.Recipient,
		},
	}, nil
}

func (h *Handler) minSwapAmount(params swap.ValidateProcessParams) *big.Int {
	if h.cfg.MinSwapAmount != "" {
		if min, err := amount.Parse(h.cfg.MinSwapAmount); err == nil {
			return min
		}
	}
	if params.Request == nil {
		return nil
	}
	fromAsset, err := h.chains.AssetBySlug(params.Request.Pair.From)
	if err != nil {
		return nil
	}
	min, err := amount.Parse(fromAsset.MinAmount)
	if err != nil {
		return nil
	}
	return min
}

// enrich stamps venue context onto an error without changing its kind.
func (h *Handler) enrich(err error) error {
	if typed, ok := swaperr.As(err); ok {
		return typed.WithMeta("provider", ProviderName).WithMeta("chain", h.cfg.Chain)
	}
	return swaperr.Wrap(swaperr.KindErrorFetchingQuote, "quote request failed", err).
		WithMeta("provider", ProviderName)
}

// SetClock overrides the handler and base time source. Tests only.
func (h *Handler) SetClock(now func() time.Time) {
	if now == nil {
		return
	}
	h.now = now
	h.base.SetClock(now)
}

func asTyped(err error) *swaperr.Error {
	if typed, ok := swaperr.As(err); ok {
		return typed
	}
	return swaperr.Wrap(swaperr.KindUnknown, "collaborator call failed", err)
}
