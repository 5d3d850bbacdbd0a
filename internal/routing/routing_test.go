package routing

import (
	"context"
	"math/big"
	"testing"

	"github.com/exo9planet/SubWallet-Extension/internal/swaperr"
)

func TestStaticBestRoute(t *testing.T) {
	router := NewStatic([]StaticRoute{
		{AssetIn: "5", AssetOut: "10", RateNum: 1, RateDen: 2, TradeFeePermill: 3, NetworkFee: "7"},
	})

	route, err := router.BestRoute(context.Background(), RouteRequest{
		AssetIn:  "5",
		AssetOut: "10",
		AmountIn: big.NewInt(1_000_000),
	})
	if err != nil {
		t.Fatalf("BestRoute returned error: %v", err)
	}
	if route.AmountOut.String() != "500000" {
		t.Fatalf("unexpected output: %s", route.AmountOut)
	}
	if route.TradeFee.String() != "3000" {
		t.Fatalf("unexpected trade fee: %s", route.TradeFee)
	}
	if route.NetworkFee.String() != "7" {
		t.Fatalf("unexpected network fee: %s", route.NetworkFee)
	}
	if len(route.Hops) != 1 || route.Hops[0].Pool != "omnipool" {
		t.Fatalf("unexpected hops: %+v", route.Hops)
	}
}

func TestStaticBestRouteErrors(t *testing.T) {
	router := NewStatic(nil)

	_, err := router.BestRoute(context.Background(), RouteRequest{AssetIn: "5", AssetOut: "10", AmountIn: big.NewInt(1)})
	if swaperr.KindOf(err) != swaperr.KindErrorFetchingQuote {
		t.Fatalf("expected ERROR_FETCHING_QUOTE for a missing route, got %v", err)
	}

	_, err = router.BestRoute(context.Background(), RouteRequest{AssetIn: "5", AssetOut: "10", AmountIn: big.NewInt(0)})
	if swaperr.KindOf(err) != swaperr.KindErrorFetchingQuote {
		t.Fatalf("expected ERROR_FETCHING_QUOTE for a non-positive amount, got %v", err)
	}

	_, err = router.BestRoute(context.Background(), RouteRequest{AssetIn: "5", AssetOut: "10", AmountIn: nil})
	if err == nil {
		t.Fatal("expected an error for a nil amount")
	}
}
