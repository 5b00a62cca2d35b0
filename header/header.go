// Package header implements a validated store of message header fields.
package header

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrInvalidHeader is returned when a header name or value is empty or
// whitespace-only.
var ErrInvalidHeader = errors.New("invalid header")

// Store maps header names to values. The last Set for a name wins; the
// order in which names were first set is preserved for emission. A Store
// is safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	values map[string]string
	order  []string
}

// NewStore creates an empty header store.
func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

// Set stores value under name, replacing any previous value for the same
// name. Both name and value must be non-blank; on error the store is left
// untouched.
func (s *Store) Set(name, value string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: blank name", ErrInvalidHeader)
	}
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: blank value for %q", ErrInvalidHeader, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[name]; !ok {
		s.order = append(s.order, name)
	}
	s.values[name] = value
	return nil
}

// Get returns the value stored under name.
func (s *Store) Get(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[name]
	return v, ok
}

// Len returns the number of stored headers.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

// Snapshot returns a frozen copy of the store's current contents. Later
// mutation of the store does not affect the snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		values: make(map[string]string, len(s.values)),
		order:  make([]string, len(s.order)),
	}
	copy(snap.order, s.order)
	for k, v := range s.values {
		snap.values[k] = v
	}
	return snap
}

// Snapshot is an immutable view of a Store taken at a point in time. It is
// safe to share across goroutines.
type Snapshot struct {
	values map[string]string
	order  []string
}

// Get returns the value stored under name at snapshot time.
func (s Snapshot) Get(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Len returns the number of headers in the snapshot.
func (s Snapshot) Len() int { return len(s.values) }

// Each calls fn for every header in first-set order.
func (s Snapshot) Each(fn func(name, value string)) {
	for _, name := range s.order {
		fn(name, s.values[name])
	}
}
