package parser

import (
	"context"
	"slices"

	"forlang/internal/ast"
	"forlang/internal/diag"
	"forlang/internal/lexer"
	"forlang/internal/source"
	"forlang/internal/token"
)

type Options struct {
	// MaxErrors stops the parse after that many errors; 0 means no limit.
	MaxErrors uint
	Reporter  diag.Reporter
}

type Result struct {
	File   ast.FileID
	Errors uint
}

// Parser holds the state of one file being parsed.
type Parser struct {
	lx     *lexer.Lexer
	arenas *ast.Builder
	opts   Options
	file   ast.FileID

	errors   uint
	lastSpan source.Span // последний съеденный токен, от него считаем места вставки
}

// ParseFile parses the whole token stream of lx into arenas. Parsing stops
// early once the error budget is spent or ctx is cancelled; what was parsed
// so far stays in the file.
func ParseFile(ctx context.Context, lx *lexer.Lexer, arenas *ast.Builder, opts Options) Result {
	p := &Parser{
		lx:       lx,
		arenas:   arenas,
		opts:     opts,
		file:     arenas.Files.New(lx.EmptySpan()),
		lastSpan: lx.EmptySpan(),
	}
	p.parseProgram(ctx)
	return Result{File: p.file, Errors: p.errors}
}

// budgetSpent reports whether no more errors may be reported.
func (p *Parser) budgetSpent() bool {
	return p.opts.MaxErrors != 0 && p.errors >= p.opts.MaxErrors
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// parseProgram: program := loop*. An empty program is valid.
func (p *Parser) parseProgram(ctx context.Context) {
	first := p.lx.Peek().Span
	for !p.at(token.EOF) && !p.budgetSpent() && ctx.Err() == nil {
		if !p.at(token.KwFor) {
			tok := p.advance()
			p.report(diag.SynUnexpectedTopLevel, diag.SevError, tok.Span, "expected 'for' at top level, got "+describe(tok))
			p.skipTo(token.KwFor)
			continue
		}
		if item, ok := p.parseLoop(); ok {
			p.arenas.PushItem(p.file, item)
		} else {
			p.skipTo(token.KwFor)
		}
	}
	p.arenas.Files.Get(p.file).Span = first.Cover(p.lastSpan)
}

// skipTo drops tokens until one of stops or EOF.
func (p *Parser) skipTo(stops ...token.Kind) {
	for !p.at(token.EOF) && !p.atOr(stops...) {
		p.advance()
	}
}
