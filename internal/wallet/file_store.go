package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
)

// fileStore keeps every wallet in a single JSON document on disk. Each
// operation rewrites the whole file under a process-wide lock, which is
// acceptable for the small player counts this backend targets.
type fileStore struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewFileStore builds a wallet store backed by a JSON file at path.
func NewFileStore(path string, logger *slog.Logger) Store {
	return &fileStore{path: path, logger: logger}
}

func (s *fileStore) Get(_ context.Context, playerID string) (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wallets := s.load()
	w, ok := wallets[playerID]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	return w, nil
}

func (s *fileStore) Put(_ context.Context, playerID string, w Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	wallets := s.load()
	wallets[playerID] = w
	return s.save(wallets)
}

func (s *fileStore) Delete(_ context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	wallets := s.load()
	if _, ok := wallets[playerID]; !ok {
		return nil
	}
	delete(wallets, playerID)
	return s.save(wallets)
}

// load reads the backing file. A missing or unreadable file yields an empty
// map: corrupt persisted state is treated as "no wallets", not a hard error.
func (s *fileStore) load() map[string]Wallet {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) && s.logger != nil {
			s.logger.Warn("read wallet file", slog.String("path", s.path), slog.Any("error", err))
		}
		return make(map[string]Wallet)
	}

	wallets := make(map[string]Wallet)
	if err := json.Unmarshal(raw, &wallets); err != nil {
		if s.logger != nil {
			s.logger.Warn("decode wallet file, starting empty", slog.String("path", s.path), slog.Any("error", err))
		}
		return make(map[string]Wallet)
	}
	return wallets
}

func (s *fileStore) save(wallets map[string]Wallet) error {
	raw, err := json.Marshal(wallets)
	if err != nil {
		return fmt.Errorf("encode wallets: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write wallet file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace wallet file: %w", err)
	}
	return nil
}
