package fuzztests

import (
	"testing"

	"forlang/internal/diag"
	"forlang/internal/lexer"
	"forlang/internal/source"
	"forlang/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.fl", input)
		file := fs.Get(fileID)

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: &diag.BagReporter{Bag: bag}})
		var prevEnd uint32
		for n := 0; ; n++ {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				break
			}
			if tok.Span.Start < prevEnd || tok.Span.End > uint32(len(input)) {
				t.Fatalf("token %d %v out of order or bounds (prev end %d)", n, tok.Span, prevEnd)
			}
			if n > len(input) {
				t.Fatalf("lexer produced more tokens than input bytes")
			}
			prevEnd = tok.Span.End
		}
	})
}
