package hydration

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strings"

	"github.com/exo9planet/SubWallet-Extension/internal/httpx"
	"github.com/exo9planet/SubWallet-Extension/internal/routing"
	"github.com/exo9planet/SubWallet-Extension/internal/swaperr"
)

const defaultBaseURL = "https://router.hydration.net/v1"

// Client queries Hydration's route-finding service for best-execution
// routes through the Omnipool and isolated pools.
type Client struct {
	http    *httpx.Client
	baseURL string
}

func New(httpClient *httpx.Client, baseURL string) *Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{http: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

type routeResponse struct {
	AmountOut  string `json:"amountOut"`
	NetworkFee string `json:"networkFee"`
	TradeFee   string `json:"tradeFee"`
	Hops       []struct {
		Pool     string `json:"pool"`
		AssetIn  string `json:"assetIn"`
		AssetOut string `json:"assetOut"`
	} `json:"hops"`
}

func (c *Client) BestRoute(ctx context.Context, req routing.RouteRequest) (routing.Route, error) {
	if req.AmountIn == nil || req.AmountIn.Sign() <= 0 {
		return routing.Route{}, swaperr.New(swaperr.KindErrorFetchingQuote, "route lookup needs a positive input amount")
	}

	vals := url.Values{}
	vals.Set("assetIn", req.AssetIn)
	vals.Set("assetOut", req.AssetOut)
	vals.Set("amountIn", req.AmountIn.String())

	endpoint := fmt.Sprintf("%s/route?%s", c.baseURL, vals.Encode())
	hReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return routing.Route{}, swaperr.Wrap(swaperr.KindInternalError, "build route request", err)
	}

	var resp routeResponse
	if err := c.http.DoJSON(ctx, hReq, &resp); err != nil {
		return routing.Route{}, err
	}
	if strings.TrimSpace(resp.AmountOut) == "" {
		return routing.Route{}, swaperr.New(swaperr.KindErrorFetchingQuote, "route response missing output amount")
	}

	amountOut, ok := new(big.Int).SetString(resp.AmountOut, 10)
	if !ok {
		return routing.Route{}, swaperr.New(swaperr.KindErrorFetchingQuote, "route response has an invalid output amount")
	}
	networkFee := parseOptionalAmount(resp.NetworkFee)
	tradeFee := parseOptionalAmount(resp.TradeFee)

	hops := make([]routing.Hop, 0, len(resp.Hops))
	for _, hop := range resp.Hops {
		hops = append(hops, routing.Hop{Pool: hop.Pool, AssetIn: hop.AssetIn, AssetOut: hop.AssetOut})
	}
	if len(hops) == 0 {
		hops = append(hops, routing.Hop{Pool: "omnipool", AssetIn: req.AssetIn, AssetOut: req.AssetOut})
	}

	return routing.Route{
		Hops:       hops,
		AmountOut:  amountOut,
		NetworkFee: networkFee,
		TradeFee:   tradeFee,
	}, nil
}

func parseOptionalAmount(v string) *big.Int {
	out, ok := new(big.Int).SetString(strings.TrimSpace(v), 10)
	if !ok {
		return new(big.Int)
	}
	return out
}
