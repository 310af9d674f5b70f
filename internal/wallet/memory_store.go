package wallet

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu      sync.RWMutex
	wallets map[string]Wallet
}

// NewMemoryStore constructs an in-process wallet store. State is lost on
// restart, which matches the game's durability contract.
func NewMemoryStore() Store {
	return &memoryStore{wallets: make(map[string]Wallet)}
}

func (s *memoryStore) Get(_ context.Context, playerID string) (Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wallets[playerID]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	return clone(w), nil
}

func (s *memoryStore) Put(_ context.Context, playerID string, w Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[playerID] = clone(w)
	return nil
}

func (s *memoryStore) Delete(_ context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.wallets, playerID)
	return nil
}

// clone copies the trade slice so callers cannot alias stored state.
func clone(w Wallet) Wallet {
	trades := make([]TradeRecord, len(w.Trades))
	copy(trades, w.Trades)
	w.Trades = trades
	return w
}
