package glossary

import (
	"context"
	"fmt"
	"sync"
)

// Service keeps the current index snapshot for a store and rebuilds it
// when the stored glossary changes.
type Service struct {
	store *Store

	mu       sync.RWMutex
	revision int64
	index    *Index
}

// NewService creates a service over store. The first snapshot is built on
// first use.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Store returns the underlying store.
func (s *Service) Store() *Store { return s.store }

// Index returns the current snapshot, rebuilding it if the store revision
// has moved since the last build.
func (s *Service) Index(ctx context.Context) (*Index, error) {
	rev, err := s.store.Revision(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	if s.index != nil && s.revision == rev {
		idx := s.index
		s.mu.RUnlock()
		return idx, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index != nil && s.revision == rev {
		return s.index, nil
	}
	terms, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading glossary snapshot: %w", err)
	}
	s.index = BuildIndex(terms)
	s.revision = rev
	return s.index, nil
}

// Highlight runs Highlight against the current snapshot.
func (s *Service) Highlight(ctx context.Context, content string) (Result, error) {
	idx, err := s.Index(ctx)
	if err != nil {
		return Result{HTML: content}, err
	}
	return Highlight(content, idx), nil
}

// Resolve maps a marker key to its term in the current snapshot. Keys from
// markers rendered against an older snapshot return ErrNotFound.
func (s *Service) Resolve(ctx context.Context, key string) (Term, error) {
	idx, err := s.Index(ctx)
	if err != nil {
		return Term{}, err
	}
	return idx.Resolve(key)
}
