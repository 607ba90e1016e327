package vm

import (
	"context"
	"fmt"

	"forlang/internal/ast"
	"forlang/internal/trace"
)

// RunLoop executes one for loop item: init once, then check, body and update
// until the check fails or the body breaks. A break skips the update of its
// iteration. It returns the number of body executions.
func (vm *VM) RunLoop(ctx context.Context, st *Store, item ast.ItemID) (uint64, *VMError) {
	loop, ok := vm.Prog.Items.Loop(item)
	if !ok {
		return 0, vm.fail(PanicMalformedTree, "malformed tree: item %d is not a loop", item)
	}
	label := fmt.Sprintf("loop#%d", item)
	vm.push(label, vm.Prog.Items.Get(item).Span)
	defer vm.pop()

	span := trace.Begin(vm.tracer, trace.ScopeLoop, label, vm.parentID)
	saved := vm.parentID
	if id := span.ID(); id != 0 {
		vm.parentID = id
	}

	n, vmErr := vm.runLoop(ctx, st, loop)

	vm.parentID = saved
	span.With("iterations", fmt.Sprint(n))
	if vmErr != nil {
		span.End(vmErr.Error())
	} else {
		span.End("")
	}
	return n, vmErr
}

func (vm *VM) runLoop(ctx context.Context, st *Store, loop *ast.LoopItem) (uint64, *VMError) {
	if vmErr := vm.execInit(st, &loop.Init); vmErr != nil {
		return 0, vmErr
	}

	var n uint64
	for {
		if err := ctx.Err(); err != nil {
			return n, vm.fail(PanicCancelled, "execution cancelled: %v", err)
		}

		ok, vmErr := vm.EvalCondition(st, &loop.Cond)
		if vmErr != nil {
			return n, vmErr
		}
		if !ok {
			return n, nil
		}

		if limit := vm.Opts.MaxIterations; limit > 0 && vm.Iterations >= limit {
			return n, vm.fail(PanicIterationLimit, "iteration limit of %d exceeded", limit)
		}
		vm.Iterations++
		n++

		ctl, vmErr := vm.ExecBody(st, loop.Body)
		if vmErr != nil {
			return n, vmErr
		}
		if ctl == ControlBreak {
			return n, nil
		}

		if _, vmErr := vm.ExecUpdate(st, &loop.Update); vmErr != nil {
			return n, vmErr
		}
	}
}

func (vm *VM) execInit(st *Store, init *ast.InitClause) *VMError {
	name := vm.name(init.Name)
	vm.push("init "+name, init.Span)
	defer vm.pop()
	return vm.set(st, name, init.Value, "init")
}
