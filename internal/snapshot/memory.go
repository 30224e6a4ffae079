package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store used by tests and by deployments that
// run without a cache backend. It honors the same envelope versioning and
// change-feed contract as RedisStore.
type MemoryStore struct {
	mu       sync.Mutex
	values   map[string][]byte
	watchers []chan string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string][]byte{}}
}

func (s *MemoryStore) Save(_ context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed marshaling snapshot with error=%w", err)
	}
	env, err := json.Marshal(envelope{Version: Version, Data: data})
	if err != nil {
		return fmt.Errorf("failed marshaling snapshot envelope with error=%w", err)
	}
	s.mu.Lock()
	s.values[key] = env
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(_ context.Context, key string, dest interface{}) (bool, error) {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	env := envelope{}
	if err := json.Unmarshal(raw, &env); err != nil {
		return false, fmt.Errorf("failed unmarshaling snapshot envelope with error=%w", err)
	}
	if env.Version != Version {
		return false, fmt.Errorf(
			"snapshot key=%s has version=%d want=%d with error=%w",
			key,
			env.Version,
			Version,
			ErrVersionMismatch,
		)
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return false, fmt.Errorf("failed unmarshaling snapshot with error=%w", err)
	}
	return true, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Watch(c context.Context) (<-chan string, error) {
	ch := make(chan string, 16)
	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()
	return ch, nil
}

// NotifyExternalChange simulates another writer rewriting a key, feeding the
// change into every Watch channel.
func (s *MemoryStore) NotifyExternalChange(key string) {
	s.mu.Lock()
	watchers := append([]chan string{}, s.watchers...)
	s.mu.Unlock()
	for _, ch := range watchers {
		ch <- key
	}
}
