// Package tunable holds named numeric parameters that can be mutated at
// runtime. Consumers poll for changes explicitly; there is no callback
// machinery and no global state, a store is injected where it is needed.
package tunable

import (
	"fmt"
	"sort"
	"sync"
)

type Store struct {
	mu      sync.RWMutex
	numbers map[string]*Number
}

func NewStore() *Store {
	return &Store{numbers: make(map[string]*Number)}
}

// Number registers a tunable under key with a default value and returns its
// handle. Registering an existing key returns the existing handle; the
// default is ignored in that case.
func (s *Store) Number(key string, def float64) *Number {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.numbers[key]; ok {
		return n
	}
	n := &Number{store: s, key: key, value: def, seen: make(map[int]uint64)}
	s.numbers[key] = n
	return n
}

// Set mutates a tunable by name. Unknown keys are an error so a typo in a
// live-tuning UI does not silently create a parameter nothing reads.
func (s *Store) Set(key string, value float64) error {
	s.mu.RLock()
	n, ok := s.numbers[key]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("tunable: unknown key %q", key)
	}
	n.Set(value)
	return nil
}

// Get reads a tunable by name.
func (s *Store) Get(key string) (float64, error) {
	s.mu.RLock()
	n, ok := s.numbers[key]
	s.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("tunable: unknown key %q", key)
	}
	return n.Get(), nil
}

// Keys returns all registered keys, sorted.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.numbers))
	for k := range s.numbers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Number is one tunable value. Change detection is per subscriber: each
// caller identifies itself with a small integer (a module index works) and
// Changed reports whether the value moved since that caller last asked.
type Number struct {
	store *Store
	key   string
	value float64
	gen   uint64
	seen  map[int]uint64
}

func (n *Number) Key() string { return n.key }

func (n *Number) Get() float64 {
	n.store.mu.RLock()
	defer n.store.mu.RUnlock()
	return n.value
}

func (n *Number) Set(value float64) {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()
	if value == n.value {
		return
	}
	n.value = value
	n.gen++
}

// Changed reports whether the value changed since the given subscriber last
// called Changed. A subscriber that has never asked sees only mutations, not
// the registration default.
func (n *Number) Changed(subscriber int) bool {
	n.store.mu.Lock()
	defer n.store.mu.Unlock()
	if n.seen[subscriber] == n.gen {
		return false
	}
	n.seen[subscriber] = n.gen
	return true
}
