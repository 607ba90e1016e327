package driver

import (
	"forlang/internal/diag"
	"forlang/internal/lexer"
	"forlang/internal/source"
	"forlang/internal/token"
)

// TokenizeResult holds every token of one file, the final EOF included.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(maxDiagnostics)
	file := fs.Get(id)
	return &TokenizeResult{FileSet: fs, File: file, Tokens: lexToEOF(file, bag), Bag: bag}, nil
}

func lexToEOF(file *source.File, bag *diag.Bag) []token.Token {
	lx := lexer.New(file, lexer.Options{Reporter: &diag.BagReporter{Bag: bag}})
	var toks []token.Token
	for tok := lx.Next(); ; tok = lx.Next() {
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}
