// Package engine implements the wallet ledger core: a pure function that
// turns a trade request into balance deltas and an immutable trade record.
// It owns no transport, persistence or identity concerns.
package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/papertrade/papertrade/internal/wallet"
)

// Request actions as submitted by clients.
const (
	ActionBuy  = "buy"
	ActionSell = "sell"
)

// Mode selects which of the two trade-semantics conventions the engine runs.
type Mode string

const (
	// ModeCommission charges a proportional fee on the received leg. The buy
	// amount is the quote-currency sum to spend.
	ModeCommission Mode = "commission"
	// ModeSimple charges no fee. The buy amount is the base-currency quantity
	// to acquire.
	ModeSimple Mode = "simple"
)

// Config carries the trade rules. The zero value is not usable; construct via
// config defaults or tests.
type Config struct {
	Mode Mode
	// MinNotional is the minimum quote-currency value of any trade.
	MinNotional decimal.Decimal
	// CommissionRate is the proportional fee in ModeCommission, e.g. 0.001.
	// Ignored in ModeSimple.
	CommissionRate decimal.Decimal
}

// Request is a client-supplied trade order. Amount semantics depend on action
// and mode: for sells it is always the base quantity to dispose; for buys it
// is the quote spend in ModeCommission and the base quantity in ModeSimple.
type Request struct {
	Action string
	Amount decimal.Decimal
	Price  decimal.Decimal
}

// Execute validates the request against the wallet and, on success, returns
// the updated wallet with the new record prepended to its history. The input
// wallet is never mutated; any validation failure returns it unchanged with a
// typed error.
func Execute(cfg Config, w wallet.Wallet, req Request, now time.Time) (wallet.Wallet, wallet.TradeRecord, error) {
	if err := validate(cfg, w, req); err != nil {
		return w, wallet.TradeRecord{}, err
	}

	var rec wallet.TradeRecord
	switch req.Action {
	case ActionBuy:
		w, rec = executeBuy(cfg, w, req, now)
	case ActionSell:
		w, rec = executeSell(cfg, w, req, now)
	}

	trades := make([]wallet.TradeRecord, 0, len(w.Trades)+1)
	trades = append(trades, rec)
	trades = append(trades, w.Trades...)
	w.Trades = trades

	return w, rec, nil
}

// validate applies the trade rules in order; the first failure wins and no
// state is touched.
func validate(cfg Config, w wallet.Wallet, req Request) error {
	if req.Action != ActionBuy && req.Action != ActionSell {
		return ErrInvalidAction
	}
	if !req.Amount.IsPositive() || !req.Price.IsPositive() {
		return ErrInvalidParameters
	}
	if notional(cfg, req).LessThan(cfg.MinNotional) {
		return ErrBelowMinimumTrade
	}
	if outlay, balance := exposure(cfg, w, req); outlay.GreaterThan(balance) {
		return ErrInsufficientBalance
	}
	return nil
}

// notional is the quote-currency value of the trade. In ModeCommission a buy
// amount already is a quote sum; every other case prices out the base amount.
func notional(cfg Config, req Request) decimal.Decimal {
	if req.Action == ActionBuy && cfg.Mode == ModeCommission {
		return req.Amount
	}
	return req.Amount.Mul(req.Price)
}

// exposure returns the required outlay and the balance that must cover it.
func exposure(cfg Config, w wallet.Wallet, req Request) (decimal.Decimal, decimal.Decimal) {
	if req.Action == ActionSell {
		return req.Amount, w.Base
	}
	if cfg.Mode == ModeCommission {
		return req.Amount, w.Quote
	}
	return req.Amount.Mul(req.Price), w.Quote
}

func executeBuy(cfg Config, w wallet.Wallet, req Request, now time.Time) (wallet.Wallet, wallet.TradeRecord) {
	var spent, received, fee decimal.Decimal

	if cfg.Mode == ModeCommission {
		spent = req.Amount
		beforeFee := spent.Div(req.Price)
		fee = beforeFee.Mul(cfg.CommissionRate)
		received = beforeFee.Sub(fee)
	} else {
		received = req.Amount
		spent = req.Amount.Mul(req.Price)
		fee = decimal.Zero
	}

	w.Quote = w.Quote.Sub(spent)
	w.Base = w.Base.Add(received)

	return w, wallet.TradeRecord{
		Action:    wallet.ActionBuy,
		Amount:    received.Round(wallet.BaseScale),
		Price:     req.Price.Round(wallet.QuoteScale),
		Total:     spent.Round(wallet.QuoteScale),
		Fee:       fee.Round(wallet.BaseScale),
		Timestamp: now.UTC(),
	}
}

func executeSell(cfg Config, w wallet.Wallet, req Request, now time.Time) (wallet.Wallet, wallet.TradeRecord) {
	beforeFee := req.Amount.Mul(req.Price)
	fee := decimal.Zero
	if cfg.Mode == ModeCommission {
		fee = beforeFee.Mul(cfg.CommissionRate)
	}
	received := beforeFee.Sub(fee)

	w.Base = w.Base.Sub(req.Amount)
	w.Quote = w.Quote.Add(received)

	return w, wallet.TradeRecord{
		Action:    wallet.ActionSell,
		Amount:    req.Amount.Round(wallet.BaseScale),
		Price:     req.Price.Round(wallet.QuoteScale),
		Total:     received.Round(wallet.QuoteScale),
		Fee:       fee.Round(wallet.QuoteScale),
		Timestamp: now.UTC(),
	}
}
