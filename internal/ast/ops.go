package ast

// RelOp is the relational operator of a loop condition.
// The zero value is RelInvalid so that a tree built without an operator is detectable.
type RelOp uint8

const (
	RelInvalid RelOp = iota // unset
	RelLt                   // <
	RelLe                   // <=
	RelGt                   // >
	RelGe                   // >=
	RelEq                   // ==
	RelNe                   // !=
)

var relOps = map[string]RelOp{
	"<":  RelLt,
	"<=": RelLe,
	">":  RelGt,
	">=": RelGe,
	"==": RelEq,
	"!=": RelNe,
}

// ParseRelOp maps operator text onto RelOp.
func ParseRelOp(text string) (RelOp, bool) {
	op, ok := relOps[text]
	return op, ok
}

func (op RelOp) String() string {
	switch op {
	case RelLt:
		return "<"
	case RelLe:
		return "<="
	case RelGt:
		return ">"
	case RelGe:
		return ">="
	case RelEq:
		return "=="
	case RelNe:
		return "!="
	}
	return "?"
}

// IncOp is the update operator of a loop header.
type IncOp uint8

const (
	IncInvalid   IncOp = iota // unset
	IncIncrement              // ++
	IncDecrement              // --
)

// ParseIncOp maps operator text onto IncOp.
func ParseIncOp(text string) (IncOp, bool) {
	switch text {
	case "++":
		return IncIncrement, true
	case "--":
		return IncDecrement, true
	}
	return IncInvalid, false
}

func (op IncOp) String() string {
	switch op {
	case IncIncrement:
		return "++"
	case IncDecrement:
		return "--"
	}
	return "?"
}
