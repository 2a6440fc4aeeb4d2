package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"mailveil/internal/domain"
)

const encStateFile = "state.enc"

// EncryptedFileStore persists the broker state sealed with
// ChaCha20-Poly1305 under an Argon2id key derived from a passphrase.
type EncryptedFileStore struct {
	dir        string
	passphrase string
	mu         sync.Mutex
}

// NewEncryptedFileStore stores sealed snapshots under dir.
func NewEncryptedFileStore(dir, passphrase string) *EncryptedFileStore {
	return &EncryptedFileStore{dir: dir, passphrase: passphrase}
}

func (s *EncryptedFileStore) path() string { return filepath.Join(s.dir, encStateFile) }

// Load reads and opens the last snapshot. Missing data yields the empty
// default. An envelope that cannot be parsed or opened (including a wrong
// passphrase) yields the empty default plus ErrCorrupt; the caller decides
// whether to continue or re-prompt.
func (s *EncryptedFileStore) Load(_ context.Context) (*domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := readFile(s.path())
	if err != nil {
		return domain.NewState(), fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if blob == nil {
		return domain.NewState(), nil
	}

	raw, err := open(s.passphrase, blob)
	if err != nil {
		return domain.NewState(), fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	st := domain.NewState()
	if err := json.Unmarshal(raw, st); err != nil {
		return domain.NewState(), fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return st, nil
}

// Save seals the snapshot and writes it via a temp file and rename.
func (s *EncryptedFileStore) Save(_ context.Context, state *domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	blob, err := seal(s.passphrase, raw)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if err := writeFile(s.path(), blob, 0o600); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Compile-time assertion that EncryptedFileStore implements domain.StateStore.
var _ domain.StateStore = (*EncryptedFileStore)(nil)
