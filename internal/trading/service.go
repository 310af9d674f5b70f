package trading

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/papertrade/papertrade/internal/engine"
	"github.com/papertrade/papertrade/internal/notification"
	"github.com/papertrade/papertrade/internal/wallet"
)

// Service composes the wallet store with the ledger engine. It owns the only
// piece of coordination in the system: the load-validate-persist sequence for
// a player is serialized per player id so concurrent submissions cannot both
// spend the same balance.
type Service struct {
	store     wallet.Store
	cfg       engine.Config
	seedQuote decimal.Decimal
	notifier  notification.Notifier

	locks sync.Map // player id -> *sync.Mutex
}

// NewService builds a trading service instance.
func NewService(store wallet.Store, cfg engine.Config, seedQuote decimal.Decimal, notifier notification.Notifier) *Service {
	return &Service{store: store, cfg: cfg, seedQuote: seedQuote, notifier: notifier}
}

func (s *Service) lock(playerID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(playerID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Wallet returns the current wallet for the player.
func (s *Service) Wallet(ctx context.Context, playerID string) (wallet.Wallet, error) {
	return s.store.Get(ctx, playerID)
}

// Ensure returns the player's wallet, seeding a fresh one when none exists.
func (s *Service) Ensure(ctx context.Context, playerID string) (wallet.Wallet, error) {
	mu := s.lock(playerID)
	mu.Lock()
	defer mu.Unlock()

	w, err := s.store.Get(ctx, playerID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, wallet.ErrNotFound) {
		return wallet.Wallet{}, err
	}
	return s.seed(ctx, playerID)
}

// Trade executes a single order against the player's wallet and persists the
// outcome. Validation failures leave the stored wallet untouched.
func (s *Service) Trade(ctx context.Context, playerID string, req engine.Request) (wallet.Wallet, wallet.TradeRecord, error) {
	mu := s.lock(playerID)
	mu.Lock()
	defer mu.Unlock()

	w, err := s.store.Get(ctx, playerID)
	if err != nil {
		return wallet.Wallet{}, wallet.TradeRecord{}, err
	}

	updated, rec, err := engine.Execute(s.cfg, w, req, time.Now())
	if err != nil {
		return wallet.Wallet{}, wallet.TradeRecord{}, err
	}

	if err := s.store.Put(ctx, playerID, updated); err != nil {
		return wallet.Wallet{}, wallet.TradeRecord{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:     notification.KindTradeExecuted,
			PlayerID: playerID,
			Body:     fmt.Sprintf("%s %s BTC at %s", rec.Action, rec.Amount, rec.Price),
		})
	}

	return updated, rec, nil
}

// Reset discards the player's history and restores the seed balances. The
// player identifier is kept; a missing wallet is simply seeded, so reset is
// idempotent.
func (s *Service) Reset(ctx context.Context, playerID string) (wallet.Wallet, error) {
	mu := s.lock(playerID)
	mu.Lock()
	defer mu.Unlock()

	w, err := s.seed(ctx, playerID)
	if err != nil {
		return wallet.Wallet{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:     notification.KindGameReset,
			PlayerID: playerID,
			Body:     "wallet restored to seed balances",
		})
	}

	return w, nil
}

// seed writes a fresh wallet for the player. Callers hold the player lock.
func (s *Service) seed(ctx context.Context, playerID string) (wallet.Wallet, error) {
	w := wallet.Seed(s.seedQuote, time.Now())
	if err := s.store.Put(ctx, playerID, w); err != nil {
		return wallet.Wallet{}, err
	}
	return w, nil
}
