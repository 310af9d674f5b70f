package wallet

import (
	"context"
	"errors"
)

// ErrNotFound indicates no wallet exists for the requested player identifier.
// Callers must not conflate this with trade validation failures.
var ErrNotFound = errors.New("wallet not found")

// Store persists wallets keyed by opaque player identifier. Implementations
// are safe for concurrent use but provide no cross-call atomicity; the trading
// service serializes read-modify-write sequences per player.
type Store interface {
	Get(ctx context.Context, playerID string) (Wallet, error)
	Put(ctx context.Context, playerID string, w Wallet) error
	Delete(ctx context.Context, playerID string) error
}
