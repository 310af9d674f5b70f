package trading

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/papertrade/papertrade/internal/engine"
	"github.com/papertrade/papertrade/internal/session"
	"github.com/papertrade/papertrade/internal/wallet"
)

// Handler exposes the trading HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a trading HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type tradeRequest struct {
	Action string          `json:"action"`
	Amount decimal.Decimal `json:"amount"`
	Price  decimal.Decimal `json:"price"`
}

type tradeRecordResponse struct {
	Action    string    `json:"action"`
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price"`
	Total     float64   `json:"total"`
	Fee       float64   `json:"fee"`
	Timestamp time.Time `json:"timestamp"`
}

type walletResponse struct {
	USDT   float64               `json:"usdt"`
	BTC    float64               `json:"btc"`
	Trades []tradeRecordResponse `json:"trades"`
}

// Wallet returns the rounded balances and trade history for the session's player.
func (h *Handler) Wallet(c *fiber.Ctx) error {
	playerID, ok := session.PlayerID(c)
	if !ok {
		return notFound(c, "no player id found")
	}

	w, err := h.service.Wallet(c.UserContext(), playerID)
	if err != nil {
		if errors.Is(err, wallet.ErrNotFound) {
			return notFound(c, "no active game found")
		}
		return err
	}

	return c.Status(http.StatusOK).JSON(walletView(w))
}

// Trade executes a buy or sell order for the session's player.
func (h *Handler) Trade(c *fiber.Ctx) error {
	playerID, ok := session.PlayerID(c)
	if !ok {
		return notFound(c, "no player id found")
	}

	var req tradeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid trade parameters"})
	}

	w, rec, err := h.service.Trade(c.UserContext(), playerID, engine.Request{
		Action: req.Action,
		Amount: req.Amount,
		Price:  req.Price,
	})
	if err != nil {
		if errors.Is(err, wallet.ErrNotFound) {
			return notFound(c, "no active game found")
		}
		if isValidationError(err) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"usdt":    roundedFloat(w.Quote, wallet.QuoteScale),
		"btc":     roundedFloat(w.Base, wallet.BaseScale),
		"trade":   recordView(rec),
	})
}

// Reset reseeds the session's wallet, discarding all trades.
func (h *Handler) Reset(c *fiber.Ctx) error {
	playerID, ok := session.PlayerID(c)
	if !ok {
		return notFound(c, "no player id found")
	}

	if _, err := h.service.Reset(c.UserContext(), playerID); err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "game reset successfully",
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, engine.ErrInvalidAction) ||
		errors.Is(err, engine.ErrInvalidParameters) ||
		errors.Is(err, engine.ErrBelowMinimumTrade) ||
		errors.Is(err, engine.ErrInsufficientBalance)
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": msg})
}

func walletView(w wallet.Wallet) walletResponse {
	trades := make([]tradeRecordResponse, 0, len(w.Trades))
	for _, rec := range w.Trades {
		trades = append(trades, recordView(rec))
	}
	return walletResponse{
		USDT:   roundedFloat(w.Quote, wallet.QuoteScale),
		BTC:    roundedFloat(w.Base, wallet.BaseScale),
		Trades: trades,
	}
}

func recordView(rec wallet.TradeRecord) tradeRecordResponse {
	return tradeRecordResponse{
		Action:    rec.Action,
		Amount:    roundedFloat(rec.Amount, wallet.BaseScale),
		Price:     roundedFloat(rec.Price, wallet.QuoteScale),
		Total:     roundedFloat(rec.Total, wallet.QuoteScale),
		Fee:       roundedFloat(rec.Fee, wallet.BaseScale),
		Timestamp: rec.Timestamp,
	}
}

// roundedFloat renders a decimal at presentation scale. Stored balances keep
// full precision; only the API view rounds.
func roundedFloat(d decimal.Decimal, scale int32) float64 {
	f, _ := d.Round(scale).Float64()
	return f
}
