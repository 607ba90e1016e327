package parser

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"forlang/internal/ast"
	"forlang/internal/diag"
	"forlang/internal/lexer"
	"forlang/internal/source"
)

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func parseSource(t *testing.T, input string) (*ast.Builder, ast.FileID, *diag.Bag) {
	return parseSourceWithOptions(t, input, Options{})
}

func parseSourceWithOptions(t *testing.T, input string, opts Options) (*ast.Builder, ast.FileID, *diag.Bag) {
	t.Helper()

	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.fl", []byte(input)))

	bag := diag.NewBag(100)
	reporter := &diag.BagReporter{Bag: bag}

	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{}, nil)

	if opts.MaxErrors == 0 {
		opts.MaxErrors = 100
	}
	opts.Reporter = reporter

	result := ParseFile(context.Background(), lx, builder, opts)
	return builder, result.File, bag
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func onlyLoop(t *testing.T, b *ast.Builder, file ast.FileID) *ast.LoopItem {
	t.Helper()
	items := b.Files.Get(file).Items
	if len(items) != 1 {
		t.Fatalf("expected 1 loop, got %d", len(items))
	}
	loop, ok := b.Items.Loop(items[0])
	if !ok {
		t.Fatal("item is not a loop")
	}
	return loop
}
