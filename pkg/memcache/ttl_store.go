package mem

import (
	"sync"
	"time"
)

type blob struct {
	value     []byte
	expiresAt time.Time
}

// TTLStore is a byte-value map with per-key expiry. Expired keys are
// dropped lazily on read and by Sweep.
type TTLStore struct {
	mu   sync.RWMutex
	data map[string]blob
	now  func() time.Time
}

func NewTTLStore() *TTLStore {
	return &TTLStore{
		data: make(map[string]blob),
		now:  time.Now,
	}
}

func (s *TTLStore) Set(key string, value []byte, ttl time.Duration) {
	cp := make([]byte, len(value))
	copy(cp, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = blob{value: cp, expiresAt: s.now().Add(ttl)}
}

func (s *TTLStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	b, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.now().After(b.expiresAt) {
		s.Delete(key)
		return nil, false
	}
	return b.value, true
}

func (s *TTLStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Sweep removes every expired key and returns how many were removed.
func (s *TTLStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for k, b := range s.data {
		if now.After(b.expiresAt) {
			delete(s.data, k)
			n++
		}
	}
	return n
}

func (s *TTLStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
