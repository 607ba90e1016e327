package vm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"forlang/internal/ast"
	"forlang/internal/diag"
	"forlang/internal/lexer"
	"forlang/internal/parser"
	"forlang/internal/source"
	"forlang/internal/vm"
)

// compile parses src and fails the test on any diagnostic error.
func compile(t *testing.T, src string) (*ast.Builder, ast.FileID, *source.FileSet) {
	t.Helper()

	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("prog.fl", []byte(src)))
	bag := diag.NewBag(50)
	reporter := &diag.BagReporter{Bag: bag}

	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(context.Background(), lx, b, parser.Options{MaxErrors: 50, Reporter: reporter})
	require.False(t, bag.HasErrors(), "unexpected diagnostics: %v", bag.Items())
	return b, res.File, fs
}

type runResult struct {
	lines []string
	vm    *vm.VM
	err   *vm.VMError
}

func run(t *testing.T, src string, opts vm.Options) runResult {
	t.Helper()
	b, file, fs := compile(t, src)
	return runTree(context.Background(), b, file, fs, opts)
}

func runTree(ctx context.Context, b *ast.Builder, file ast.FileID, fs *source.FileSet, opts vm.Options) runResult {
	rt := vm.NewBufferRuntime()
	m := vm.New(b, file, rt, fs, opts)
	vmErr := m.Run(ctx)
	return runResult{lines: rt.Lines(), vm: m, err: vmErr}
}

// loopSpec describes a hand-built loop; it allows operators the parser never produces.
type loopSpec struct {
	initName string
	initVal  int64
	condName string
	rel      ast.RelOp
	limit    int64
	updName  string
	inc      ast.IncOp
	body     []string // literal with delimiters, or "break"
}

func buildTree(specs ...loopSpec) (*ast.Builder, ast.FileID) {
	b := ast.NewBuilder(ast.Hints{}, nil)
	file := b.NewFile(source.Span{})
	for _, s := range specs {
		stmts := make([]ast.StmtID, 0, len(s.body))
		for _, lit := range s.body {
			if lit == "break" {
				stmts = append(stmts, b.Stmts.NewBreak(source.Span{}))
				continue
			}
			stmts = append(stmts, b.Stmts.NewOutput(source.Span{}, lit, source.Span{}))
		}
		loop := ast.LoopItem{
			Init:   ast.InitClause{Name: b.StringsInterner.Intern(s.initName), Value: s.initVal},
			Cond:   ast.CondClause{Name: b.StringsInterner.Intern(s.condName), Op: s.rel, Value: s.limit},
			Update: ast.UpdateClause{Name: b.StringsInterner.Intern(s.updName), Op: s.inc},
			Body:   b.Stmts.NewBlock(source.Span{}, stmts),
		}
		b.PushItem(file, b.Items.NewLoop(loop, source.Span{}))
	}
	return b, file
}
