package in_mem

import (
	"sync"

	"github.com/DjordjeVuckovic/weight-forge/internal/state"
)

// Store is an in-memory instrumented state store. Proof size is accounted
// deterministically: the first read of each key charges key length plus
// value length, repeat reads of the same key charge nothing, matching how
// a merkle proof carries each touched node once.
type Store struct {
	mu       sync.RWMutex
	data     map[string][]byte
	counters state.Counters
	proven   map[string]bool
}

func NewStore() *Store {
	return &Store{
		data:   make(map[string][]byte),
		proven: make(map[string]bool),
	}
}

func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters.Reads++
	if !s.proven[key] {
		s.proven[key] = true
		v := s.data[key]
		s.counters.ProofSize += int64(len(key) + len(v))
	}

	v, ok := s.data[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true
}

func (s *Store) Put(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters.Writes++
	v := make([]byte, len(value))
	copy(v, value)
	s.data[key] = v
}

func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters.Writes++
	delete(s.data, key)
}

func (s *Store) Counters() state.Counters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters
}

func (s *Store) ResetCounters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters = state.Counters{}
	s.proven = make(map[string]bool)
}

// Snapshot returns an isolated copy of the store with zeroed counters.
func (s *Store) Snapshot() state.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := NewStore()
	for k, v := range s.data {
		cp := make([]byte, len(v))
		copy(cp, v)
		snap.data[k] = cp
	}
	return snap
}

// Len reports the number of stored keys. Test helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
