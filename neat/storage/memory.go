package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/baldhumanity/neat-go/neat"
)

// MemoryStore keeps archived genotypes in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
	opts []neat.Option
}

// NewMemoryStore returns an empty store. opts apply to genotypes returned by Get.
func NewMemoryStore(opts ...neat.Option) *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte), opts: opts}
}

// Put stores g under its ID, replacing any earlier entry.
func (s *MemoryStore) Put(ctx context.Context, g *neat.Genotype) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := encode(g)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[g.ID] = b
	return nil
}

// Get returns a fresh genotype rebuilt from the entry for id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*neat.Genotype, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	b, ok := s.data[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	g, err := decode(id, b, s.opts)
	if err != nil {
		return nil, false, err
	}
	return g, true, nil
}

// List returns the archived ids in ascending order.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	return ids, nil
}

// Delete removes id, returning ErrNotFound when it is not archived.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return ErrNotFound
	}
	delete(s.data, id)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
