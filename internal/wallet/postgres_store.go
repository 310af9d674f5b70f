package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists each wallet as a jsonb document keyed by player id.
//
// Expected schema:
//
//	CREATE TABLE wallets (
//	    player_id  uuid PRIMARY KEY,
//	    state      jsonb NOT NULL,
//	    updated_at timestamptz NOT NULL
//	);
type PostgresStore struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore builds a wallet store backed by PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

func (s *PostgresStore) Get(ctx context.Context, playerID string) (Wallet, error) {
	id, err := uuid.Parse(playerID)
	if err != nil {
		return Wallet{}, ErrNotFound
	}

	var raw []byte
	row := s.db.QueryRow(ctx, `SELECT state FROM wallets WHERE player_id = $1`, id)
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrNotFound
		}
		return Wallet{}, fmt.Errorf("query wallet: %w", err)
	}

	var w Wallet
	if err := json.Unmarshal(raw, &w); err != nil {
		if s.logger != nil {
			s.logger.Warn("decode stored wallet", slog.String("player_id", playerID), slog.Any("error", err))
		}
		return Wallet{}, ErrNotFound
	}
	return w, nil
}

func (s *PostgresStore) Put(ctx context.Context, playerID string, w Wallet) error {
	id, err := uuid.Parse(playerID)
	if err != nil {
		return fmt.Errorf("invalid player id: %w", err)
	}
	raw, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode wallet: %w", err)
	}
	_, err = s.db.Exec(ctx, `INSERT INTO wallets (player_id, state, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (player_id) DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at`,
		id, raw, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert wallet: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, playerID string) error {
	id, err := uuid.Parse(playerID)
	if err != nil {
		return nil
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM wallets WHERE player_id = $1`, id); err != nil {
		return fmt.Errorf("delete wallet: %w", err)
	}
	return nil
}
