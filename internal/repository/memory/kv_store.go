package memory

import (
	"context"
	"sync"

	"adoptions/internal/domain"
	"adoptions/internal/port"
)

// KVStore is an in-process KeyValueStore. Values are copied on the way in and
// out.
type KVStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ port.KeyValueStore = (*KVStore)(nil)

// NewKVStore creates an empty store.
func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string][]byte)}
}

func (s *KVStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *KVStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *KVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *KVStore) Ping(context.Context) error { return nil }

func (s *KVStore) Close() error { return nil }
