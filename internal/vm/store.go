package vm

import "maps"

// Store is the flat variable store of one program execution.
// Unset names read as 0. There is no deletion and no scoping.
// Not safe for concurrent use; every execution owns its Store.
type Store struct {
	vars map[string]int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{vars: make(map[string]int64, 4)}
}

// Get returns the value of name, or 0 when it was never set.
func (s *Store) Get(name string) int64 {
	return s.vars[name]
}

// Lookup is Get that also reports whether name was ever set.
func (s *Store) Lookup(name string) (int64, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Set inserts or overwrites name.
func (s *Store) Set(name string, v int64) {
	if s.vars == nil {
		s.vars = make(map[string]int64, 4)
	}
	s.vars[name] = v
}

// Len returns the number of set names.
func (s *Store) Len() int {
	return len(s.vars)
}

// Snapshot returns a copy of the current bindings.
func (s *Store) Snapshot() map[string]int64 {
	return maps.Clone(s.vars)
}
