package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/nexusai/billing/internal/store"
)

var _ store.Backend = (*Store)(nil)

// Store keeps documents in process memory. Data is copied on the way in and
// out so callers can never alias stored bytes.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

func New() *Store {
	return &Store{
		collections: make(map[string]map[string][]byte),
	}
}

func (s *Store) Get(_ context.Context, collection, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.collections[collection][id]
	if !ok {
		return nil, store.NotFound(collection, id)
	}
	return clone(data), nil
}

// List returns documents ordered by id
func (s *Store) List(_ context.Context, collection string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.collections[collection]
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([][]byte, 0, len(ids))
	for _, id := range ids {
		out = append(out, clone(docs[id]))
	}
	return out, nil
}

func (s *Store) Put(_ context.Context, collection, id string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(collection, id, data)
	return nil
}

func (s *Store) ReplaceAll(_ context.Context, collection string, docs map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	replaced := make(map[string][]byte, len(docs))
	for id, data := range docs {
		replaced[id] = clone(data)
	}
	s.collections[collection] = replaced
	return nil
}

func (s *Store) Commit(ctx context.Context, writes []store.Write) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range writes {
		s.put(w.Collection, w.ID, w.Data)
	}
	return nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) Close() error {
	return nil
}

// Clear drops every collection
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections = make(map[string]map[string][]byte)
}

func (s *Store) put(collection, id string, data []byte) {
	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string][]byte)
		s.collections[collection] = docs
	}
	docs[id] = clone(data)
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
