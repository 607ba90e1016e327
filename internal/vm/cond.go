package vm

import (
	"forlang/internal/ast"
)

// EvalCondition reads the condition variable from st and compares it with
// the literal. Reads have no side effects, so repeated calls against an
// unchanged store agree.
func (vm *VM) EvalCondition(st *Store, c *ast.CondClause) (bool, *VMError) {
	if c == nil {
		return false, vm.fail(PanicMalformedTree, "malformed tree: missing condition")
	}
	vm.push("check "+vm.name(c.Name)+" "+c.Op.String(), c.Span)
	defer vm.pop()

	lhs := st.Get(vm.name(c.Name))
	ok, known := Compare(lhs, c.Op, c.Value)
	if !known {
		return false, vm.fail(PanicUnknownOperator, "unknown relational operator %s (%d)", c.Op, uint8(c.Op))
	}
	return ok, nil
}

// Compare applies op to lhs and rhs. known is false for an operator outside
// the six relational operators.
func Compare(lhs int64, op ast.RelOp, rhs int64) (result, known bool) {
	switch op {
	case ast.RelLt:
		return lhs < rhs, true
	case ast.RelLe:
		return lhs <= rhs, true
	case ast.RelGt:
		return lhs > rhs, true
	case ast.RelGe:
		return lhs >= rhs, true
	case ast.RelEq:
		return lhs == rhs, true
	case ast.RelNe:
		return lhs != rhs, true
	case ast.RelInvalid:
		return false, false
	}
	return false, false
}
