package vm

import (
	"forlang/internal/ast"
)

// ExecUpdate applies ++ or -- to the update variable and returns the new value.
// An unset variable counts as 0. Leaving the int64 range is a VM2002 panic and
// leaves the store untouched.
func (vm *VM) ExecUpdate(st *Store, u *ast.UpdateClause) (int64, *VMError) {
	if u == nil {
		return 0, vm.fail(PanicMalformedTree, "malformed tree: missing update")
	}
	name := vm.name(u.Name)
	vm.push("update "+name+u.Op.String(), u.Span)
	defer vm.pop()

	var delta int64
	switch u.Op {
	case ast.IncIncrement:
		delta = 1
	case ast.IncDecrement:
		delta = -1
	default:
		return 0, vm.fail(PanicUnknownOperator, "unknown increment operator %s (%d)", u.Op, uint8(u.Op))
	}
	cur := st.Get(name)
	next, ok := stepChecked(cur, delta)
	if !ok {
		return 0, vm.fail(PanicIntegerOverflow, "integer overflow: %s%s with %s = %d", name, u.Op.String(), name, cur)
	}
	if vmErr := vm.set(st, name, next, "update"); vmErr != nil {
		return 0, vmErr
	}
	return next, nil
}
