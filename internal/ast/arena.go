package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena stores nodes of one type and hands out IDs starting at 1,
// so the zero ID always means "none".
type Arena[ID ~uint32, T any] struct {
	nodes []T
}

func NewArena[ID ~uint32, T any](capHint uint) *Arena[ID, T] {
	return &Arena[ID, T]{nodes: make([]T, 0, capHint)}
}

func (a *Arena[ID, T]) Allocate(value T) ID {
	a.nodes = append(a.nodes, value)
	n, err := safecast.Conv[uint32](len(a.nodes))
	if err != nil {
		panic(fmt.Errorf("ast: arena overflow: %w", err))
	}
	return ID(n)
}

// Get returns nil for the zero ID and for IDs never allocated.
func (a *Arena[ID, T]) Get(id ID) *T {
	if id == 0 || int(id) > len(a.nodes) {
		return nil
	}
	return &a.nodes[id-1]
}

func (a *Arena[ID, T]) Len() int { return len(a.nodes) }
