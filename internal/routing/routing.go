package routing

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/exo9planet/SubWallet-Extension/internal/swaperr"
)

// RouteRequest asks a venue's route-finding backend for the best
// execution of AmountIn of AssetIn into AssetOut. Asset identifiers are
// the venue's on-chain ids, not registry slugs.
type RouteRequest struct {
	AssetIn  string
	AssetOut string
	AmountIn *big.Int
}

type Hop struct {
	Pool     string
	AssetIn  string
	AssetOut string
}

// Route is a best-price route: the hops to traverse, the resulting
// output amount, and the fees the route itself charges. NetworkFee is
// denominated in the chain's native token, TradeFee in AssetIn.
type Route struct {
	Hops       []Hop
	AmountOut  *big.Int
	NetworkFee *big.Int
	TradeFee   *big.Int
}

// Router is the routing-provider collaborator: best-price route lookup
// for a pair of on-chain asset identifiers and an input amount.
type Router interface {
	BestRoute(ctx context.Context, req RouteRequest) (Route, error)
}

// StaticRoute is a fixture route used by the offline scenario and
// tests: output is AmountIn * RateNum / RateDen minus the trade fee
// taken in parts per thousand.
type StaticRoute struct {
	AssetIn         string
	AssetOut        string
	RateNum         int64
	RateDen         int64
	TradeFeePermill int64
	NetworkFee      string
}

// Static is a deterministic in-memory router. Safe for concurrent use.
type Static struct {
	mu     sync.RWMutex
	routes map[string]StaticRoute
}

func NewStatic(routes []StaticRoute) *Static {
	s := &Static{routes: make(map[string]StaticRoute, len(routes))}
	for _, route := range routes {
		s.routes[pairKey(route.AssetIn, route.AssetOut)] = route
	}
	return s
}

func (s *Static) BestRoute(_ context.Context, req RouteRequest) (Route, error) {
	if req.AmountIn == nil || req.AmountIn.Sign() <= 0 {
		return Route{}, swaperr.New(swaperr.KindErrorFetchingQuote, "route lookup needs a positive input amount")
	}
	s.mu.RLock()
	fixture, ok := s.routes[pairKey(req.AssetIn, req.AssetOut)]
	s.mu.RUnlock()
	if !ok {
		return Route{}, swaperr.New(swaperr.KindErrorFetchingQuote,
			fmt.Sprintf("no route between assets %s and %s", req.AssetIn, req.AssetOut))
	}
	if fixture.RateDen == 0 {
		return Route{}, swaperr.New(swaperr.KindInternalError, "route fixture has a zero rate denominator")
	}

	out := new(big.Int).Mul(req.AmountIn, big.NewInt(fixture.RateNum))
	out.Div(out, big.NewInt(fixture.RateDen))
	tradeFee := new(big.Int).Mul(req.AmountIn, big.NewInt(fixture.TradeFeePermill))
	tradeFee.Div(tradeFee, big.NewInt(1000))

	networkFee := new(big.Int)
	if fixture.NetworkFee != "" {
		if _, ok := networkFee.SetString(fixture.NetworkFee, 10); !ok {
			return Route{}, swaperr.New(swaperr.KindInternalError, "route fixture has an invalid network fee")
		}
	}

	return Route{
		Hops:       []Hop{{Pool: "omnipool", AssetIn: req.AssetIn, AssetOut: req.AssetOut}},
		AmountOut:  out,
		NetworkFee: networkFee,
		TradeFee:   tradeFee,
	}, nil
}

func pairKey(assetIn, assetOut string) string {
	return assetIn + ">" + assetOut
}
