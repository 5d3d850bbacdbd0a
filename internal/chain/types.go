package chain

import (
	"context"
	"math/big"
)

// AddressFormat is the address-family a chain accepts. The engine only
// distinguishes account-model substrate addresses from contract-model
// EVM addresses; finer families live with the chain collaborators.
type AddressFormat string

const (
	AddressFormatSubstrate AddressFormat = "substrate"
	AddressFormatEVM       AddressFormat = "evm"
)

// Asset describes one fungible asset as the chain registry knows it.
// MinAmount is the existential-deposit floor in base units: the smallest
// balance the origin chain lets an account keep. Spendable-amount math
// always subtracts it. OnChainID is the identifier a venue resolves the
// asset by on its operating chain; empty means not resolvable there.
type Asset struct {
	Slug        string
	OriginChain string
	Symbol      string
	Decimals    int
	MinAmount   string
	OnChainID   string
}

type Info struct {
	Key           string
	Name          string
	AddressFormat AddressFormat
}

type State struct {
	Active bool
}

// XcmTransferRequest describes a cross-chain transfer for fee dry-runs.
type XcmTransferRequest struct {
	Sender           string
	OriginChain      string
	DestinationChain string
	AssetSlug        string
	Amount           *big.Int
}

// SubstrateAPI is a connection handle to one chain's node. Venues hold
// one while ready; TransferFee dry-runs an XCM transfer and returns the
// network fee it would pay.
type SubstrateAPI interface {
	IsReady(ctx context.Context) error
	TransferFee(ctx context.Context, req XcmTransferRequest) (*big.Int, error)
}

// Service is the chain registry collaborator. Implementations must be
// safe for concurrent reads; the engine never writes through it except
// via EnableChain.
type Service interface {
	AssetBySlug(slug string) (Asset, error)
	InfoByKey(key string) (Info, error)
	StateByKey(key string) (State, error)
	EnableChain(key string) error
	SubstrateAPI(key string) (SubstrateAPI, error)
}
