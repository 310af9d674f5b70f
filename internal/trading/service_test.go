package trading

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/papertrade/papertrade/internal/engine"
	"github.com/papertrade/papertrade/internal/notification"
	"github.com/papertrade/papertrade/internal/wallet"
)

type testNotifier struct {
	mu   sync.Mutex
	msgs []notification.Message
}

func (n *testNotifier) Send(_ context.Context, msg notification.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return nil
}

func newTestService(notifier notification.Notifier) *Service {
	cfg := engine.Config{
		Mode:           engine.ModeCommission,
		MinNotional:    decimal.RequireFromString("10"),
		CommissionRate: decimal.RequireFromString("0.001"),
	}
	return NewService(wallet.NewMemoryStore(), cfg, decimal.RequireFromString("100.00"), notifier)
}

func buyRequest(amount, price string) engine.Request {
	return engine.Request{
		Action: engine.ActionBuy,
		Amount: decimal.RequireFromString(amount),
		Price:  decimal.RequireFromString(price),
	}
}

func TestEnsureSeedsOnce(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	playerID := uuid.NewString()

	w, err := svc.Ensure(ctx, playerID)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if !w.Quote.Equal(decimal.RequireFromString("100.00")) || !w.Base.IsZero() {
		t.Fatalf("unexpected seed wallet: %+v", w)
	}

	// A trade then a second Ensure must not reseed.
	if _, _, err := svc.Trade(ctx, playerID, buyRequest("50", "50000")); err != nil {
		t.Fatalf("trade: %v", err)
	}
	again, err := svc.Ensure(ctx, playerID)
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if len(again.Trades) != 1 {
		t.Fatalf("ensure reseeded an active wallet: %+v", again)
	}
}

func TestTradeUnknownPlayer(t *testing.T) {
	svc := newTestService(nil)
	_, _, err := svc.Trade(context.Background(), uuid.NewString(), buyRequest("50", "50000"))
	if !errors.Is(err, wallet.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTradePersistsAndNotifies(t *testing.T) {
	notifier := &testNotifier{}
	svc := newTestService(notifier)
	ctx := context.Background()
	playerID := uuid.NewString()

	if _, err := svc.Ensure(ctx, playerID); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	w, rec, err := svc.Trade(ctx, playerID, buyRequest("50", "50000"))
	if err != nil {
		t.Fatalf("trade: %v", err)
	}
	if !w.Quote.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("expected quote 50, got %s", w.Quote)
	}
	if rec.Action != wallet.ActionBuy {
		t.Fatalf("expected BUY record, got %s", rec.Action)
	}

	stored, err := svc.Wallet(ctx, playerID)
	if err != nil {
		t.Fatalf("wallet: %v", err)
	}
	if len(stored.Trades) != 1 || stored.Trades[0].Action != wallet.ActionBuy {
		t.Fatalf("trade not persisted: %+v", stored.Trades)
	}

	if len(notifier.msgs) != 1 || notifier.msgs[0].Kind != notification.KindTradeExecuted {
		t.Fatalf("expected one trade notification, got %+v", notifier.msgs)
	}
}

func TestFailedTradeLeavesStoreUntouched(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	playerID := uuid.NewString()

	if _, err := svc.Ensure(ctx, playerID); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	if _, _, err := svc.Trade(ctx, playerID, buyRequest("500", "50000")); !errors.Is(err, engine.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	w, err := svc.Wallet(ctx, playerID)
	if err != nil {
		t.Fatalf("wallet: %v", err)
	}
	if !w.Quote.Equal(decimal.RequireFromString("100.00")) || len(w.Trades) != 0 {
		t.Fatalf("rejected trade mutated stored wallet: %+v", w)
	}
}

func TestTradeHistoryNewestFirst(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	playerID := uuid.NewString()

	if _, err := svc.Ensure(ctx, playerID); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	amounts := []string{"10", "20", "30"}
	for _, a := range amounts {
		if _, _, err := svc.Trade(ctx, playerID, buyRequest(a, "50000")); err != nil {
			t.Fatalf("trade %s: %v", a, err)
		}
	}

	w, _ := svc.Wallet(ctx, playerID)
	if len(w.Trades) != 3 {
		t.Fatalf("expected 3 trades, got %d", len(w.Trades))
	}
	if !w.Trades[0].Total.Equal(decimal.RequireFromString("30")) || !w.Trades[2].Total.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("expected newest-first ordering, got %+v", w.Trades)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	playerID := uuid.NewString()

	if _, err := svc.Ensure(ctx, playerID); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if _, _, err := svc.Trade(ctx, playerID, buyRequest("50", "50000")); err != nil {
		t.Fatalf("trade: %v", err)
	}

	first, err := svc.Reset(ctx, playerID)
	if err != nil {
		t.Fatalf("first reset: %v", err)
	}
	second, err := svc.Reset(ctx, playerID)
	if err != nil {
		t.Fatalf("second reset: %v", err)
	}

	for _, w := range []wallet.Wallet{first, second} {
		if !w.Quote.Equal(decimal.RequireFromString("100.00")) || !w.Base.IsZero() || len(w.Trades) != 0 {
			t.Fatalf("reset did not restore seed state: %+v", w)
		}
	}
}

func TestResetSeedsMissingPlayer(t *testing.T) {
	svc := newTestService(nil)
	w, err := svc.Reset(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !w.Quote.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("unexpected reset wallet: %+v", w)
	}
}

// Concurrent submissions for the same player must not both spend the same
// balance: the seed covers exactly one of the two 60 USDT buys.
func TestConcurrentTradesCannotOverdraw(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	playerID := uuid.NewString()

	if _, err := svc.Ensure(ctx, playerID); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	const attempts = 10
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.Trade(ctx, playerID, buyRequest("60", "50000"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, engine.ErrInsufficientBalance) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one 60 USDT buy to succeed, got %d", succeeded)
	}

	w, _ := svc.Wallet(ctx, playerID)
	if w.Quote.IsNegative() {
		t.Fatalf("quote balance overdrawn: %s", w.Quote)
	}
}
