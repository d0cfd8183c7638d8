package history

import (
	"context"
	"errors"
	"sync"
)

// ErrEmpty is returned by Pop and Peek on an empty history.
var ErrEmpty = errors.New("history is empty")

// DefaultLimit bounds a store created without an explicit limit.
const DefaultLimit = 100

// Store is a bounded stack of route tokens.
type Store interface {
	Push(ctx context.Context, token string) error
	Pop(ctx context.Context) (string, error)
	Peek(ctx context.Context) (string, error)
	Len(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.Mutex
	limit   int
	entries []string
}

// NewMemoryStore creates a store keeping at most limit tokens. A limit <= 0 uses DefaultLimit.
func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &MemoryStore{limit: limit, entries: make([]string, 0)}
}

// Push adds a token on top.
func (s *MemoryStore) Push(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, token)
	if over := len(s.entries) - s.limit; over > 0 {
		s.entries = append(s.entries[:0], s.entries[over:]...)
	}
	return nil
}

// Pop removes and returns the top token.
func (s *MemoryStore) Pop(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return "", ErrEmpty
	}
	token := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return token, nil
}

// Peek returns the top token without removing it.
func (s *MemoryStore) Peek(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return "", ErrEmpty
	}
	return s.entries[len(s.entries)-1], nil
}

// Len returns the number of tokens.
func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), nil
}

// Clear removes every token.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = s.entries[:0]
	return nil
}
