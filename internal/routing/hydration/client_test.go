package hydration

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/exo9planet/SubWallet-Extension/internal/httpx"
	"github.com/exo9planet/SubWallet-Extension/internal/routing"
	"github.com/exo9planet/SubWallet-Extension/internal/swaperr"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(httpx.New(2*time.Second, 0), server.URL)
}

func TestBestRoute(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/route" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("assetIn") != "5" || q.Get("assetOut") != "10" || q.Get("amountIn") != "1000000" {
			t.Fatalf("unexpected query %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"amountOut": "498500",
			"networkFee": "7000000000",
			"tradeFee": "1500",
			"hops": [{"pool": "omnipool", "assetIn": "5", "assetOut": "10"}]
		}`)
	})

	route, err := client.BestRoute(context.Background(), routing.RouteRequest{
		AssetIn:  "5",
		AssetOut: "10",
		AmountIn: big.NewInt(1_000_000),
	})
	if err != nil {
		t.Fatalf("BestRoute returned error: %v", err)
	}
	if route.AmountOut.String() != "498500" {
		t.Fatalf("unexpected output amount: %s", route.AmountOut)
	}
	if route.NetworkFee.String() != "7000000000" || route.TradeFee.String() != "1500" {
		t.Fatalf("unexpected fees: %s / %s", route.NetworkFee, route.TradeFee)
	}
	if len(route.Hops) != 1 || route.Hops[0].Pool != "omnipool" {
		t.Fatalf("unexpected hops: %+v", route.Hops)
	}
}

func TestBestRouteFillsMissingHops(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"amountOut": "42"}`)
	})

	route, err := client.BestRoute(context.Background(), routing.RouteRequest{
		AssetIn:  "5",
		AssetOut: "10",
		AmountIn: big.NewInt(100),
	})
	if err != nil {
		t.Fatalf("BestRoute returned error: %v", err)
	}
	if len(route.Hops) != 1 || route.Hops[0].AssetIn != "5" || route.Hops[0].AssetOut != "10" {
		t.Fatalf("expected a synthesized direct hop, got %+v", route.Hops)
	}
	if route.NetworkFee.Sign() != 0 || route.TradeFee.Sign() != 0 {
		t.Fatalf("missing fees must read as zero, got %s / %s", route.NetworkFee, route.TradeFee)
	}
}

func TestBestRouteEmptyAmountOut(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"amountOut": ""}`)
	})

	_, err := client.BestRoute(context.Background(), routing.RouteRequest{
		AssetIn:  "5",
		AssetOut: "10",
		AmountIn: big.NewInt(100),
	})
	if swaperr.KindOf(err) != swaperr.KindErrorFetchingQuote {
		t.Fatalf("expected ERROR_FETCHING_QUOTE, got %v", err)
	}
}

func TestBestRouteServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.BestRoute(context.Background(), routing.RouteRequest{
		AssetIn:  "5",
		AssetOut: "10",
		AmountIn: big.NewInt(100),
	})
	if swaperr.KindOf(err) != swaperr.KindErrorFetchingQuote {
		t.Fatalf("expected ERROR_FETCHING_QUOTE, got %v", err)
	}
}

func TestBestRouteRejectsNonPositiveAmount(t *testing.T) {
	client := New(httpx.New(time.Second, 0), "")
	_, err := client.BestRoute(context.Background(), routing.RouteRequest{AssetIn: "5", AssetOut: "10", AmountIn: big.NewInt(0)})
	if swaperr.KindOf(err) != swaperr.KindErrorFetchingQuote {
		t.Fatalf("expected ERROR_FETCHING_QUOTE, got %v", err)
	}
}
