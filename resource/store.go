package resource

import (
	"errors"
	"sync"
)

var ErrClosed = errors.New("resource store closed")

// Store is an in-memory slot table with handle reuse.
type Store struct {
	entries  []entry
	freeList []Handle
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	value any
	kind  Kind
	valid bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

// Create stores a value and returns a handle.
func (s *Store) Create(kind Kind, value any) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	e := entry{kind: kind, value: value, valid: true}

	if len(s.freeList) > 0 {
		handle := s.freeList[len(s.freeList)-1]
		s.freeList = s.freeList[:len(s.freeList)-1]
		s.entries[handle-1] = e
		return handle, nil
	}

	s.entries = append(s.entries, e)
	return Handle(len(s.entries)), nil
}

func (s *Store) lookup(handle Handle) (entry, bool) {
	if handle == 0 {
		return entry{}, false
	}
	idx := handle - 1
	if int(idx) >= len(s.entries) {
		return entry{}, false
	}
	e := s.entries[idx]
	return e, e.valid
}

// Get retrieves a value by handle.
func (s *Store) Get(handle Handle) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.lookup(handle)
	return e.value, ok
}

// Kind returns the kind a handle was created with.
func (s *Store) Kind(handle Handle) (Kind, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.lookup(handle)
	return e.kind, ok
}

// Drop removes an entry and returns its value. A handle is dropped at most once.
func (s *Store) Drop(handle Handle) (any, Kind, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(handle)
	if !ok {
		return nil, "", false
	}
	s.entries[handle-1] = entry{}
	s.freeList = append(s.freeList, handle)
	return e.value, e.kind, true
}

// Close marks the store closed and forgets all entries without running
// any cleanup. Callers that need cleanup drain the store first.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.entries = nil
	s.freeList = nil
	return nil
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, e := range s.entries {
		if e.valid {
			count++
		}
	}
	return count
}

// Each iterates over live entries until fn returns false.
func (s *Store) Each(fn func(Handle, Kind, any) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, e := range s.entries {
		if e.valid {
			if !fn(Handle(i+1), e.kind, e.value) {
				break
			}
		}
	}
}
