package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// ActionBuy marks a trade that converted quote currency into base currency.
	ActionBuy = "BUY"
	// ActionSell marks a trade that converted base currency into quote currency.
	ActionSell = "SELL"
)

// Decimal places used when recording trades and rendering balances. Stored
// balances keep full precision; these scales apply at presentation boundaries.
const (
	QuoteScale = 2
	BaseScale  = 8
)

// Wallet holds one player's balances and trade history.
type Wallet struct {
	Quote     decimal.Decimal `json:"usdt"`
	Base      decimal.Decimal `json:"btc"`
	Trades    []TradeRecord   `json:"trades"`
	CreatedAt time.Time       `json:"created_at"`
}

// TradeRecord is an immutable log entry for one executed trade. Amounts are
// rounded to the recording scales at construction time; records are never
// updated after creation.
type TradeRecord struct {
	Action string `json:"action"`
	// Amount is the base-currency quantity transacted, net of fees on buys.
	Amount decimal.Decimal `json:"amount"`
	Price  decimal.Decimal `json:"price"`
	// Total is the quote-currency counter-value: spent on a buy, received on a sell.
	Total decimal.Decimal `json:"total"`
	// Fee is denominated in the received leg's currency (base for buys, quote
	// for sells). Zero when commissions are disabled.
	Fee       decimal.Decimal `json:"fee"`
	Timestamp time.Time       `json:"timestamp"`
}

// Seed returns a fresh wallet holding the given quote-currency stake and no
// base currency.
func Seed(quote decimal.Decimal, now time.Time) Wallet {
	return Wallet{
		Quote:     quote,
		Base:      decimal.Zero,
		Trades:    []TradeRecord{},
		CreatedAt: now.UTC(),
	}
}
