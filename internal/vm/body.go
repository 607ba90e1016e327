package vm

import (
	"forlang/internal/ast"
	"forlang/internal/trace"
)

// Control tells the loop controller how a body finished.
type Control uint8

const (
	// ControlLinear means every statement ran; the loop proceeds to its update.
	ControlLinear Control = iota
	// ControlBreak means a break statement ran; the loop ends without its update.
	ControlBreak
)

func (c Control) String() string {
	switch c {
	case ControlLinear:
		return "linear"
	case ControlBreak:
		return "break"
	}
	return "unknown"
}

// ExecBody runs the statement sequence of body in order. Output statements
// emit one line each; a break statement stops the sequence at once.
func (vm *VM) ExecBody(st *Store, body ast.StmtID) (Control, *VMError) {
	block := vm.Prog.Stmts.Block(body)
	if block == nil {
		return ControlLinear, vm.fail(PanicMalformedTree, "malformed tree: loop body is not a statement block")
	}
	for _, id := range block.Stmts {
		stmt := vm.Prog.Stmts.Get(id)
		if stmt == nil {
			return ControlLinear, vm.fail(PanicMalformedTree, "malformed tree: dangling statement id")
		}
		switch stmt.Kind {
		case ast.StmtOutput:
			if vmErr := vm.execOutput(id, stmt); vmErr != nil {
				return ControlLinear, vmErr
			}
		case ast.StmtBreak:
			if vm.traceStmt {
				trace.Point(vm.tracer, trace.ScopeStmt, "break", "", vm.parentID)
			}
			return ControlBreak, nil
		case ast.StmtBlock:
			return ControlLinear, vm.fail(PanicMalformedTree, "malformed tree: nested statement block")
		default:
			return ControlLinear, vm.fail(PanicMalformedTree, "malformed tree: unknown statement kind %s", stmt.Kind)
		}
	}
	return ControlLinear, nil
}

func (vm *VM) execOutput(id ast.StmtID, stmt *ast.Stmt) *VMError {
	vm.push("printf", stmt.Span)
	defer vm.pop()

	out := vm.Prog.Stmts.Output(id)
	if out == nil {
		return vm.fail(PanicMalformedTree, "malformed tree: output statement without payload")
	}
	line, ok := StripDelimiters(out.Literal)
	if !ok {
		return vm.fail(PanicMalformedTree, "malformed tree: string literal without delimiters")
	}

	if err := vm.RT.Output(line); err != nil {
		return vm.fail(PanicOutputFailed, "output failed: %v", err)
	}
	vm.Lines++
	vm.Recorder.RecordOutput(line)
	if vm.Replayer != nil {
		if vmErr := vm.Replayer.ConsumeOutput(vm, line); vmErr != nil {
			return vmErr
		}
	}
	if vm.traceStmt {
		trace.Point(vm.tracer, trace.ScopeStmt, "output", line, vm.parentID)
	}
	return nil
}

// StripDelimiters removes exactly one leading and one trailing byte.
// Escape sequences inside the literal are kept verbatim.
func StripDelimiters(literal string) (string, bool) {
	if len(literal) < 2 {
		return "", false
	}
	return literal[1 : len(literal)-1], true
}
