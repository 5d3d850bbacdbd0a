package swap

import (
	"context"
	"math/big"

	"github.com/exo9planet/SubWallet-Extension/internal/swaperr"
)

// OptimalProcessParams bundles what step generation needs: the request
// and, once the user has accepted one, the chosen quote. The quote is
// optional at planning time but required to emit a submit step.
type OptimalProcessParams struct {
	Request *Request
	Quote   *Quote
}

// ValidateProcessParams is the input to pre-submission validation: the
// selected quote, the generated path, and the requester's addresses.
type ValidateProcessParams struct {
	Request   *Request
	Quote     *Quote
	Path      *Path
	Recipient string
}

// StepGenerator decides whether one step belongs in a path. It returns
// (nil, nil, nil) when no step is needed. Generators must not mutate
// the path; read-only collaborator queries are fine.
type StepGenerator func(ctx context.Context, params OptimalProcessParams) (*Step, *FeeInfo, error)

// RequestValidation carries the outcome of validating a swap request:
// the maximum amount the account could swap, surfaced for UI hinting.
type RequestValidation struct {
	MaxSwappable *big.Int
}

// Handler is the per-venue contract. One concrete type per venue; each
// holds the shared Base by composition. Quote and plan generation are
// gated on Init having completed.
type Handler interface {
	Provider() string
	Init(ctx context.Context) error
	ValidateRequest(ctx context.Context, req *Request) (RequestValidation, error)
	GetQuote(ctx context.Context, req *Request) (*Quote, error)
	GenerateOptimalProcess(ctx context.Context, params OptimalProcessParams) (*Path, error)
	ValidateProcess(ctx context.Context, params ValidateProcessParams) []*swaperr.Error
	SubmitProcess(ctx context.Context, params ValidateProcessParams) (SubmitStepData, error)
}
