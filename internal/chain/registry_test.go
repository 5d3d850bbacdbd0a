package chain

import (
	"testing"

	"github.com/exo9planet/SubWallet-Extension/internal/swaperr"
)

func TestRegistryBootstrapLookups(t *testing.T) {
	r := NewRegistry(nil, nil)

	asset, err := r.AssetBySlug("hydradx-LOCAL-DOT")
	if err != nil {
		t.Fatalf("AssetBySlug returned error: %v", err)
	}
	if asset.OriginChain != "hydradx" || asset.OnChainID != "5" || asset.Decimals != 10 {
		t.Fatalf("unexpected bootstrap asset: %+v", asset)
	}

	info, err := r.InfoByKey("moonbeam")
	if err != nil {
		t.Fatalf("InfoByKey returned error: %v", err)
	}
	if info.AddressFormat != AddressFormatEVM {
		t.Fatalf("expected moonbeam to be an EVM chain, got %q", info.AddressFormat)
	}
}

func TestRegistryUnknownAssetKind(t *testing.T) {
	r := NewRegistry(nil, nil)
	_, err := r.AssetBySlug("nowhere-NATIVE-NONE")
	if swaperr.KindOf(err) != swaperr.KindAssetNotSupported {
		t.Fatalf("expected ASSET_NOT_SUPPORTED, got %s", swaperr.KindOf(err))
	}
}

func TestRegistryExtrasOverrideBootstrap(t *testing.T) {
	r := NewRegistry(
		[]Info{{Key: "testnet", Name: "Testnet", AddressFormat: AddressFormatSubstrate}},
		[]Asset{{Slug: "hydradx-LOCAL-DOT", OriginChain: "hydradx", Symbol: "DOT", Decimals: 10, MinAmount: "1", OnChainID: "5"}},
	)

	asset, err := r.AssetBySlug("hydradx-LOCAL-DOT")
	if err != nil {
		t.Fatalf("AssetBySlug returned error: %v", err)
	}
	if asset.MinAmount != "1" {
		t.Fatalf("expected extra asset to override bootstrap, got MinAmount %q", asset.MinAmount)
	}
	if _, err := r.InfoByKey("testnet"); err != nil {
		t.Fatalf("expected extra chain to be registered: %v", err)
	}
}

func TestRegistryChainState(t *testing.T) {
	r := NewRegistry(nil, nil)

	state, err := r.StateByKey("hydradx")
	if err != nil {
		t.Fatalf("StateByKey returned error: %v", err)
	}
	if state.Active {
		t.Fatal("chains must start inactive")
	}

	if err := r.EnableChain("hydradx"); err != nil {
		t.Fatalf("EnableChain returned error: %v", err)
	}
	state, err = r.StateByKey("hydradx")
	if err != nil {
		t.Fatalf("StateByKey returned error: %v", err)
	}
	if !state.Active {
		t.Fatal("expected chain to be active after EnableChain")
	}

	if err := r.EnableChain("nowhere"); err == nil {
		t.Fatal("expected EnableChain to fail for an unregistered chain")
	}
}

func TestRegistrySubstrateAPI(t *testing.T) {
	r := NewRegistry(nil, nil)
	if _, err := r.SubstrateAPI("hydradx"); err == nil {
		t.Fatal("expected an error before any connection is attached")
	}
	r.AttachSubstrateAPI("hydradx", nil)
	if _, err := r.SubstrateAPI("hydradx"); err != nil {
		t.Fatalf("expected attached connection to be returned: %v", err)
	}
}
