package driver

import (
	"context"
	"strconv"

	"fortio.org/safecast"

	"forlang/internal/ast"
	"forlang/internal/diag"
	"forlang/internal/lexer"
	"forlang/internal/parser"
	"forlang/internal/source"
	"forlang/internal/trace"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	FileID  ast.FileID
	Bag     *diag.Bag
}

// Valid reports whether the program conforms to the grammar.
// Warnings do not make a program invalid.
func (r *ParseResult) Valid() bool {
	return r != nil && r.Bag != nil && !r.Bag.HasErrors()
}

// Parse loads and parses path.
func Parse(ctx context.Context, path string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return parseLoaded(ctx, fs, fs.Get(fileID), maxDiagnostics)
}

// ParseSource parses in-memory content registered under name (stdin, tests).
func ParseSource(ctx context.Context, name string, content []byte, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, content)
	return parseLoaded(ctx, fs, fs.Get(fileID), maxDiagnostics)
}

func parseLoaded(ctx context.Context, fs *source.FileSet, file *source.File, maxDiagnostics int) (*ParseResult, error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", trace.CurrentSpan(ctx).SpanID)
	defer span.End("")

	maxErrors, err := safecast.Conv[uint](max(maxDiagnostics, 0))
	if err != nil {
		return nil, err
	}

	bag := diag.NewBag(maxDiagnostics)
	// лексер и парсер могут пожаловаться на один и тот же токен
	reporter := diag.NewDedupReporter(&diag.BagReporter{Bag: bag})
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{}, nil)

	result := parser.ParseFile(ctx, lx, builder, parser.Options{
		Reporter:  reporter,
		MaxErrors: maxErrors,
	})
	bag.Sort()
	span.With("diagnostics", strconv.Itoa(bag.Len()))

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Builder: builder,
		FileID:  result.File,
		Bag:     bag,
	}, nil
}
