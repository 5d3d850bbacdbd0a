package scenario

import (
	"context"
	"fmt"
	"math/big"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/exo9planet/SubWallet-Extension/internal/balance"
	"github.com/exo9planet/SubWallet-Extension/internal/chain"
	"github.com/exo9planet/SubWallet-Extension/internal/routing"
)

// File is the YAML shape of an offline scenario: extra chains and
// assets layered over the registry bootstrap, account balances, XCM
// transfer fees, and deterministic routes.
type File struct {
	Chains []struct {
		Key           string `yaml:"key"`
		Name          string `yaml:"name"`
		AddressFormat string `yaml:"address_format"`
	} `yaml:"chains"`
	Assets []struct {
		Slug        string `yaml:"slug"`
		OriginChain string `yaml:"origin_chain"`
		Symbol      string `yaml:"symbol"`
		Decimals    int    `yaml:"decimals"`
		MinAmount   string `yaml:"min_amount"`
		OnChainID   string `yaml:"on_chain_id"`
	} `yaml:"assets"`
	Balances []struct {
		Address string `yaml:"address"`
		Chain   string `yaml:"chain"`
		Asset   string `yaml:"asset"`
		Value   string `yaml:"value"`
	} `yaml:"balances"`
	XcmFees []struct {
		OriginChain      string `yaml:"origin_chain"`
		DestinationChain string `yaml:"destination_chain"`
		Asset            string `yaml:"asset"`
		Fee              string `yaml:"fee"`
	} `yaml:"xcm_fees"`
	Routes []struct {
		AssetIn         string `yaml:"asset_in"`
		AssetOut        string `yaml:"asset_out"`
		RateNum         int64  `yaml:"rate_num"`
		RateDen         int64  `yaml:"rate_den"`
		TradeFeePermill int64  `yaml:"trade_fee_permill"`
		NetworkFee      string `yaml:"network_fee"`
	} `yaml:"routes"`
}

// Scenario is a fully wired offline world: the registry with fixture
// node connections attached, a balance service, and a router.
type Scenario struct {
	Chains   *chain.Registry
	Balances *balance.Static
	Router   *routing.Static
}

func Load(path string) (*Scenario, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var file File
	if err := yaml.Unmarshal(buf, &file); err != nil {
		return nil, fmt.Errorf("parse scenario yaml: %w", err)
	}
	return Build(file)
}

func Build(file File) (*Scenario, error) {
	extraChains := make([]chain.Info, 0, len(file.Chains))
	for _, c := range file.Chains {
		format, err := parseAddressFormat(c.AddressFormat)
		if err != nil {
			return nil, fmt.Errorf("scenario chain %s: %w", c.Key, err)
		}
		extraChains = append(extraChains, chain.Info{Key: c.Key, Name: c.Name, AddressFormat: format})
	}

	extraAssets := make([]chain.Asset, 0, len(file.Assets))
	for _, a := range file.Assets {
		extraAssets = append(extraAssets, chain.Asset{
			Slug:        a.Slug,
			OriginChain: a.OriginChain,
			Symbol:      a.Symbol,
			Decimals:    a.Decimals,
			MinAmount:   a.MinAmount,
			OnChainID:   a.OnChainID,
		})
	}

	registry := chain.NewRegistry(extraChains, extraAssets)

	balances := balance.NewStatic()
	for _, b := range file.Balances {
		balances.Set(b.Address, b.Chain, b.Asset, b.Value)
	}

	fees := make(map[string]*big.Int, len(file.XcmFees))
	feeChains := make(map[string]struct{})
	for _, f := range file.XcmFees {
		fee, ok := new(big.Int).SetString(f.Fee, 10)
		if !ok {
			return nil, fmt.Errorf("scenario xcm fee %s->%s: invalid amount %q", f.OriginChain, f.DestinationChain, f.Fee)
		}
		fees[xcmFeeKey(f.OriginChain, f.DestinationChain, f.Asset)] = fee
		feeChains[f.OriginChain] = struct{}{}
		feeChains[f.DestinationChain] = struct{}{}
	}
	api := &fixtureAPI{fees: fees}
	for key := range feeChains {
		registry.AttachSubstrateAPI(key, api)
	}
	// The venue chain always needs a connection handle, even in
	// scenarios that define no XCM fees.
	registry.AttachSubstrateAPI("hydradx", api)

	routes := make([]routing.StaticRoute, 0, len(file.Routes))
	for _, r := range file.Routes {
		routes = append(routes, routing.StaticRoute{
			AssetIn:         r.AssetIn,
			AssetOut:        r.AssetOut,
			RateNum:         r.RateNum,
			RateDen:         r.RateDen,
			TradeFeePermill: r.TradeFeePermill,
			NetworkFee:      r.NetworkFee,
		})
	}

	return &Scenario{
		Chains:   registry,
		Balances: balances,
		Router:   routing.NewStatic(routes),
	}, nil
}

func parseAddressFormat(v string) (chain.AddressFormat, error) {
	switch v {
	case "substrate":
		return chain.AddressFormatSubstrate, nil
	case "evm":
		return chain.AddressFormatEVM, nil
	default:
		return "", fmt.Errorf("unknown address format %q", v)
	}
}

// fixtureAPI is an always-ready node connection whose transfer fees
// come from the scenario table.
type fixtureAPI struct {
	fees map[string]*big.Int
}

func (f *fixtureAPI) IsReady(_ context.Context) error { return nil }

func (f *fixtureAPI) TransferFee(_ context.Context, req chain.XcmTransferRequest) (*big.Int, error) {
	fee, ok := f.fees[xcmFeeKey(req.OriginChain, req.DestinationChain, req.AssetSlug)]
	if !ok {
		return nil, fmt.Errorf("no transfer fee fixture for %s -> %s (%s)",
			req.OriginChain, req.DestinationChain, req.AssetSlug)
	}
	return new(big.Int).Set(fee), nil
}

func xcmFeeKey(origin, destination, asset string) string {
	return origin + ">" + destination + ">" + asset
}
