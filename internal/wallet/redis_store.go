package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "papertrade:wallet:v1:"

type redisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisStore builds a wallet store that keeps one JSON value per player in
// Redis. Keys carry no TTL; abandoned games are reaped out of band.
func NewRedisStore(client *redis.Client, logger *slog.Logger) Store {
	return &redisStore{client: client, logger: logger}
}

func (s *redisStore) Get(ctx context.Context, playerID string) (Wallet, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+playerID).Result()
	if err == redis.Nil {
		return Wallet{}, ErrNotFound
	}
	if err != nil {
		return Wallet{}, fmt.Errorf("redis get wallet: %w", err)
	}

	var w Wallet
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		// Undecodable state counts as absent rather than poisoning the player.
		if s.logger != nil {
			s.logger.Warn("decode stored wallet", slog.String("player_id", playerID), slog.Any("error", err))
		}
		return Wallet{}, ErrNotFound
	}
	return w, nil
}

func (s *redisStore) Put(ctx context.Context, playerID string, w Wallet) error {
	raw, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode wallet: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+playerID, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis put wallet: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, playerID string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+playerID).Err(); err != nil {
		return fmt.Errorf("redis delete wallet: %w", err)
	}
	return nil
}
