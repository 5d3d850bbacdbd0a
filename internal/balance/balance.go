package balance

import (
	"context"
	"fmt"
	"sync"

	"github.com/exo9planet/SubWallet-Extension/internal/swaperr"
)

// Free is one account's transferable balance of one asset, as a
// base-unit integer string.
type Free struct {
	Value string
}

// Service is the balance collaborator. Implementations must be safe for
// concurrent reads; the engine re-queries it at validation time instead
// of caching across the user-confirmation interval.
type Service interface {
	FreeBalance(ctx context.Context, address, chainKey, assetSlug string) (Free, error)
}

// Static is a map-backed balance service used by the CLI scenario and
// tests. Keys are address/chain/slug triples.
type Static struct {
	mu       sync.RWMutex
	balances map[string]string
}

func NewStatic() *Static {
	return &Static{balances: make(map[string]string)}
}

func (s *Static) Set(address, chainKey, assetSlug, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[staticKey(address, chainKey, assetSlug)] = value
}

func (s *Static) FreeBalance(_ context.Context, address, chainKey, assetSlug string) (Free, error) {
	s.mu.RLock()
	value, ok := s.balances[staticKey(address, chainKey, assetSlug)]
	s.mu.RUnlock()
	if !ok {
		return Free{Value: "0"}, nil
	}
	if value == "" {
		return Free{}, swaperr.New(swaperr.KindInternalError, "balance entry is empty")
	}
	return Free{Value: value}, nil
}

func staticKey(address, chainKey, assetSlug string) string {
	return fmt.Sprintf("%s|%s|%s", address, chainKey, assetSlug)
}
