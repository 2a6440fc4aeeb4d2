package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"mailveil/internal/domain"
)

const stateFile = "state.json"

// ErrCorrupt marks a snapshot that could not be parsed. Loads that return
// it also return the empty default state, so the broker can warn and keep
// going instead of dying on bad data.
var ErrCorrupt = errors.New("corrupt state snapshot")

// FileStore persists the broker state as a single JSON document in dir.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore stores snapshots under dir.
func NewFileStore(dir string) *FileStore { return &FileStore{dir: dir} }

func (s *FileStore) path() string { return filepath.Join(s.dir, stateFile) }

// Load reads the last snapshot. Missing data yields the empty default;
// unparseable data yields the empty default plus ErrCorrupt.
func (s *FileStore) Load(_ context.Context) (*domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(s.path())
	if err != nil {
		return domain.NewState(), fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if b == nil {
		return domain.NewState(), nil
	}

	st := domain.NewState()
	if err := json.Unmarshal(b, st); err != nil {
		return domain.NewState(), fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return st, nil
}

// Save writes the snapshot via a temp file and rename.
func (s *FileStore) Save(_ context.Context, state *domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if err := writeFile(s.path(), b, 0o600); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Compile-time assertion that FileStore implements domain.StateStore.
var _ domain.StateStore = (*FileStore)(nil)
