package store

import (
	"context"
	"sync"

	"mailveil/internal/domain"
)

// Memory keeps the snapshot in process memory. It deep-copies on both Save
// and Load so callers never share a live State with the store. Used by
// tests and the memory backend.
type Memory struct {
	mu    sync.Mutex
	state *domain.State
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory { return &Memory{} }

// Load returns a copy of the last saved snapshot, or the empty default.
func (s *Memory) Load(_ context.Context) (*domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return domain.NewState(), nil
	}
	return s.state.Clone(), nil
}

// Save stores a copy of the snapshot.
func (s *Memory) Save(_ context.Context, state *domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state.Clone()
	return nil
}

// Compile-time assertion that Memory implements domain.StateStore.
var _ domain.StateStore = (*Memory)(nil)
