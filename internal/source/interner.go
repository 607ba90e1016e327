package source

import "strings"

// StringID refers to a string stored in an Interner.
type StringID uint32

// NoStringID is reserved for the empty string.
const NoStringID StringID = 0

// Interner хранит каждое имя переменной один раз на программу.
type Interner struct {
	names []string
	ids   map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{names: []string{""}, ids: map[string]StringID{"": NoStringID}}
}

// Intern returns the ID of s, storing a copy on first sight so the
// source buffer is not retained.
func (in *Interner) Intern(s string) StringID {
	if id, ok := in.ids[s]; ok {
		return id
	}
	id := StringID(len(in.names)) //nolint:gosec // bounded by source size
	owned := strings.Clone(s)
	in.names = append(in.names, owned)
	in.ids[owned] = id
	return id
}

func (in *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(in.names) {
		return "", false
	}
	return in.names[id], true
}

// Len counts stored strings, the reserved empty one included.
func (in *Interner) Len() int { return len(in.names) }
