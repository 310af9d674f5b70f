package notification

import (
	"context"
	"log/slog"
)

const (
	// KindTradeExecuted indicates a trade settled against a player's wallet.
	KindTradeExecuted = "trade_executed"
	// KindGameReset indicates a wallet was reseeded.
	KindGameReset = "game_reset"
)

// Message describes a notification payload.
type Message struct {
	Kind     string
	PlayerID string
	Body     string
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier is a stub implementation that writes notifications to the logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification",
		slog.String("kind", message.Kind),
		slog.String("player_id", message.PlayerID),
		slog.String("body", message.Body),
	)
	return nil
}
