package transcript

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStorer is an in-memory Storer, used when no database path is
// configured and in tests.
type MemoryStorer struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	order   []string // insertion order, for stable List output
}

// NewMemoryStorer creates an empty in-memory store.
func NewMemoryStorer() *MemoryStorer {
	return &MemoryStorer{
		entries: make(map[string]*Entry),
	}
}

func (s *MemoryStorer) Put(_ context.Context, e *Entry) error {
	if e == nil {
		return fmt.Errorf("cannot put nil entry")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[e.Hash]; exists {
		return nil
	}

	s.entries[e.Hash] = e
	s.order = append(s.order, e.Hash)
	return nil
}

func (s *MemoryStorer) Get(_ context.Context, hash string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[hash]
	if !ok {
		return nil, ErrNotFound{Hash: hash}
	}
	return e, nil
}

func (s *MemoryStorer) Has(_ context.Context, hash string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries[hash]
	return ok, nil
}

func (s *MemoryStorer) List(_ context.Context) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Entry, 0, len(s.order))
	for _, h := range s.order {
		out = append(out, s.entries[h])
	}
	return out, nil
}

func (s *MemoryStorer) Heads(_ context.Context) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hasChild := make(map[string]bool)
	for _, e := range s.entries {
		if e.ParentHash != nil {
			hasChild[*e.ParentHash] = true
		}
	}

	var heads []*Entry
	for _, h := range s.order {
		if !hasChild[h] {
			heads = append(heads, s.entries[h])
		}
	}
	return heads, nil
}

func (s *MemoryStorer) History(_ context.Context, hash string) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Walk from the entry back to the root
	var chain []*Entry
	cur, ok := s.entries[hash]
	if !ok {
		return nil, ErrNotFound{Hash: hash}
	}
	for {
		chain = append(chain, cur)
		if cur.ParentHash == nil {
			break
		}
		parent, ok := s.entries[*cur.ParentHash]
		if !ok {
			return nil, ErrNotFound{Hash: *cur.ParentHash}
		}
		cur = parent
	}

	// Reverse to chronological order
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func (s *MemoryStorer) Close() error {
	return nil
}
