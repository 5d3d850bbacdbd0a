package chain

import (
	"fmt"
	"sync"

	"github.com/exo9planet/SubWallet-Extension/internal/swaperr"
)

// Registry is the built-in chain service: a static bootstrap table of
// chains and assets, optionally extended at construction time, with
// per-chain activation state. Reads are lock-free on the static maps;
// chain state is guarded for concurrent access.
type Registry struct {
	chains map[string]Info
	assets map[string]Asset

	mu    sync.RWMutex
	state map[string]State
	apis  map[string]SubstrateAPI
}

var bootstrapChains = []Info{
	{Key: "hydradx", Name: "Hydration", AddressFormat: AddressFormatSubstrate},
	{Key: "polkadot", Name: "Polkadot", AddressFormat: AddressFormatSubstrate},
	{Key: "statemint", Name: "Polkadot Asset Hub", AddressFormat: AddressFormatSubstrate},
	{Key: "moonbeam", Name: "Moonbeam", AddressFormat: AddressFormatEVM},
	{Key: "ethereum", Name: "Ethereum", AddressFormat: AddressFormatEVM},
}

// Bootstrap assets for the Hydration venue and its top-up chains.
// OnChainID is the Omnipool asset id on hydradx; assets of other chains
// carry no id there.
var bootstrapAssets = []Asset{
	{Slug: "hydradx-NATIVE-HDX", OriginChain: "hydradx", Symbol: "HDX", Decimals: 12, MinAmount: "1000000000000", OnChainID: "0"},
	{Slug: "hydradx-LOCAL-DOT", OriginChain: "hydradx", Symbol: "DOT", Decimals: 10, MinAmount: "17540000", OnChainID: "5"},
	{Slug: "hydradx-LOCAL-USDT", OriginChain: "hydradx", Symbol: "USDT", Decimals: 6, MinAmount: "10000", OnChainID: "10"},
	{Slug: "hydradx-LOCAL-GLMR", OriginChain: "hydradx", Symbol: "GLMR", Decimals: 18, MinAmount: "34854864344868000", OnChainID: "16"},
	{Slug: "polkadot-NATIVE-DOT", OriginChain: "polkadot", Symbol: "DOT", Decimals: 10, MinAmount: "10000000000"},
	{Slug: "statemint-LOCAL-USDT", OriginChain: "statemint", Symbol: "USDT", Decimals: 6, MinAmount: "70000"},
	{Slug: "moonbeam-NATIVE-GLMR", OriginChain: "moonbeam", Symbol: "GLMR", Decimals: 18, MinAmount: "0"},
}

// NewRegistry builds a registry from the bootstrap tables plus any
// extra chains and assets (scenario fixtures, tests). Extras override
// bootstrap entries with the same key or slug.
func NewRegistry(extraChains []Info, extraAssets []Asset) *Registry {
	r := &Registry{
		chains: make(map[string]Info, len(bootstrapChains)+len(extraChains)),
		assets: make(map[string]Asset, len(bootstrapAssets)+len(extraAssets)),
		state:  make(map[string]State),
		apis:   make(map[string]SubstrateAPI),
	}
	for _, info := range bootstrapChains {
		r.chains[info.Key] = info
	}
	for _, info := range extraChains {
		r.chains[info.Key] = info
	}
	for _, asset := range bootstrapAssets {
		r.assets[asset.Slug] = asset
	}
	for _, asset := range extraAssets {
		r.assets[asset.Slug] = asset
	}
	return r
}

// AttachSubstrateAPI registers the connection handle for one chain.
// Called during wiring, before any handler touches the registry.
func (r *Registry) AttachSubstrateAPI(key string, api SubstrateAPI) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apis[key] = api
}

func (r *Registry) AssetBySlug(slug string) (Asset, error) {
	asset, ok := r.assets[slug]
	if !ok {
		return Asset{}, swaperr.New(swaperr.KindAssetNotSupported, fmt.Sprintf("asset not registered: %s", slug))
	}
	return asset, nil
}

func (r *Registry) InfoByKey(key string) (Info, error) {
	info, ok := r.chains[key]
	if !ok {
		return Info{}, swaperr.New(swaperr.KindInternalError, fmt.Sprintf("chain not registered: %s", key))
	}
	return info, nil
}

func (r *Registry) StateByKey(key string) (State, error) {
	if _, ok := r.chains[key]; !ok {
		return State{}, swaperr.New(swaperr.KindInternalError, fmt.Sprintf("chain not registered: %s", key))
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state[key], nil
}

func (r *Registry) EnableChain(key string) error {
	if _, ok := r.chains[key]; !ok {
		return swaperr.New(swaperr.KindInternalError, fmt.Sprintf("chain not registered: %s", key))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state[key] = State{Active: true}
	return nil
}

func (r *Registry) SubstrateAPI(key string) (SubstrateAPI, error) {
	r.mu.RLock()
	api, ok := r.apis[key]
	r.mu.RUnlock()
	if !ok {
		return nil, swaperr.New(swaperr.KindInternalError, fmt.Sprintf("no node connection for chain: %s", key))
	}
	return api, nil
}
