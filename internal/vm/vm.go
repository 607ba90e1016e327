package vm

import (
	"context"
	"strconv"

	"forlang/internal/ast"
	"forlang/internal/source"
	"forlang/internal/trace"
)

// Options configures VM execution.
type Options struct {
	// MaxIterations bounds the total number of loop-body executions of one
	// program. 0 means unlimited.
	MaxIterations uint64
}

// VM walks a parsed program and executes its loops against one Store.
type VM struct {
	Prog     *ast.Builder
	File     ast.FileID
	Store    *Store
	RT       Runtime
	Recorder *Recorder
	Replayer *Replayer
	Files    *source.FileSet
	Opts     Options

	// Iterations counts body executions over all loops of the program.
	Iterations uint64
	// Lines counts emitted output lines.
	Lines uint64

	tracer    trace.Tracer
	traceStmt bool
	parentID  uint64
	frames    []frame
}

// New creates a VM for file of prog. rt receives output lines; a nil rt discards them.
func New(prog *ast.Builder, file ast.FileID, rt Runtime, files *source.FileSet, opts Options) *VM {
	if rt == nil {
		rt = DiscardRuntime{}
	}
	return &VM{
		Prog:   prog,
		File:   file,
		Store:  NewStore(),
		RT:     rt,
		Files:  files,
		Opts:   opts,
		tracer: trace.Nop,
	}
}

// Run executes every top-level loop of the file in source order, sharing
// vm.Store between them. The first VMError stops the program.
func (vm *VM) Run(ctx context.Context) *VMError {
	if ctx == nil {
		ctx = context.Background()
	}
	vm.bindTracer(ctx)

	vmErr := vm.run(ctx)
	if vm.Replayer != nil {
		if vmErr != nil {
			vmErr = vm.Replayer.CheckPanic(vm, vmErr)
		} else {
			vmErr = vm.Replayer.FinalizeExit(vm, 0)
		}
	}
	if vmErr != nil {
		vm.Recorder.RecordPanic(vmErr, vm.Files)
	} else {
		vm.Recorder.RecordExit(0)
	}
	return vmErr
}

func (vm *VM) run(ctx context.Context) *VMError {
	if vm.Prog == nil {
		return vm.fail(PanicMalformedTree, "malformed tree: no program")
	}
	file := vm.Prog.Files.Get(vm.File)
	if file == nil {
		return vm.fail(PanicMalformedTree, "malformed tree: unknown file id")
	}
	for _, item := range file.Items {
		if _, vmErr := vm.RunLoop(ctx, vm.Store, item); vmErr != nil {
			return vmErr
		}
	}
	return nil
}

func (vm *VM) bindTracer(ctx context.Context) {
	vm.tracer = trace.FromContext(ctx)
	vm.traceStmt = trace.Enabled(vm.tracer, trace.ScopeStmt)
	vm.parentID = trace.CurrentSpan(ctx).SpanID
}

func (vm *VM) name(id source.StringID) string {
	if vm.Prog == nil || vm.Prog.StringsInterner == nil {
		return ""
	}
	return vm.Prog.Name(id)
}

func (vm *VM) push(name string, sp source.Span) {
	vm.frames = append(vm.frames, frame{name: name, span: sp})
}

func (vm *VM) pop() {
	if len(vm.frames) > 0 {
		vm.frames = vm.frames[:len(vm.frames)-1]
	}
}

// set writes the store and mirrors the write into the record/replay log.
func (vm *VM) set(st *Store, name string, v int64, step string) *VMError {
	st.Set(name, v)
	vm.Recorder.RecordSet(name, v)
	if vm.Replayer != nil {
		if vmErr := vm.Replayer.ConsumeSet(vm, name, v); vmErr != nil {
			return vmErr
		}
	}
	if vm.traceStmt {
		trace.Point(vm.tracer, trace.ScopeStmt, step, name+" = "+strconv.FormatInt(v, 10), vm.parentID)
	}
	return nil
}
