package engine

import "errors"

var (
	// ErrInvalidAction occurs when the requested action is neither "buy" nor "sell".
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidParameters occurs when amount or price is zero or negative.
	ErrInvalidParameters = errors.New("invalid trade parameters")

	// ErrBelowMinimumTrade occurs when the quote-currency notional of the
	// trade is below the configured minimum.
	ErrBelowMinimumTrade = errors.New("below minimum trade size")

	// ErrInsufficientBalance occurs when the wallet cannot cover the
	// requested outlay.
	ErrInsufficientBalance = errors.New("insufficient balance")
)
