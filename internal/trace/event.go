package trace

import "time"

// Kind tells span boundaries apart from instant events.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{"unknown", "begin", "end", "point", "heartbeat"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[0]
}

// Scope is the granularity of an event; larger values are finer.
type Scope uint8

const (
	// ScopeDriver covers whole CLI commands and batch runs.
	ScopeDriver Scope = iota + 1
	// ScopePass covers one phase for one file (tokenize, parse, run).
	ScopePass
	// ScopeLoop covers one top-level loop execution.
	ScopeLoop
	// ScopeStmt covers single steps: init, update, output, break.
	ScopeStmt
)

var scopeNames = [...]string{"unknown", "driver", "pass", "loop", "stmt"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return scopeNames[0]
}

// Attr is one key=value annotation of an event, kept in insertion order.
type Attr struct {
	Key   string
	Value string
}

type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for root spans
	Name     string // "parse", "loop#1", "update"...
	Detail   string
	Attrs    []Attr
}
