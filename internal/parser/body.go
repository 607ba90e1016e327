package parser

import (
	"forlang/internal/ast"
	"forlang/internal/diag"
	"forlang/internal/token"
)

// parseBody разбирает "{" sentencia "}".
// Операторы после break грамматикой не допускаются; принимаем их с предупреждением,
// исполнитель до них всё равно не дойдёт.
func (p *Parser) parseBody() (ast.StmtID, bool) {
	lbrace, ok := p.expect(token.LBrace, diag.SynExpectLoopBody, "expected '{' to start the loop body")
	if !ok {
		return ast.NoStmtID, false
	}

	stmts := make([]ast.StmtID, 0, 4)
	sawBreak := false
	warned := false
	for !p.atOr(token.RBrace, token.EOF) {
		tok := p.lx.Peek()
		if sawBreak && !warned {
			p.report(diag.SynUnreachableAfterBreak, diag.SevWarning, tok.Span, "unreachable statement after break")
			warned = true
		}

		var (
			stmt ast.StmtID
			ok   bool
		)
		switch tok.Kind {
		case token.KwPrintf:
			stmt, ok = p.parseOutputStmt()
		case token.KwBreak:
			stmt, ok = p.parseBreakStmt()
			sawBreak = true
		default:
			p.err(diag.SynUnexpectedToken, "expected 'printf' or 'break' in loop body, got "+describe(tok))
			return ast.NoStmtID, false
		}
		if !ok {
			return ast.NoStmtID, false
		}
		stmts = append(stmts, stmt)
	}

	if len(stmts) == 0 && p.at(token.RBrace) {
		p.report(diag.SynEmptyLoopBody, diag.SevError, lbrace.Span.Cover(p.lx.Peek().Span),
			"loop body must contain at least one printf or break")
	}

	if _, ok := p.expect(
		token.RBrace,
		diag.SynUnclosedBrace,
		"expected '}' to close the loop body",
		func(b *diag.ReportBuilder) { b.WithNote(lbrace.Span, "loop body opened here") },
	); !ok {
		return ast.NoStmtID, false
	}
	if len(stmts) == 0 {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewBlock(lbrace.Span.Cover(p.lastSpan), stmts), true
}

// salida := "printf" "(" cadena ")" ";"
func (p *Parser) parseOutputStmt() (ast.StmtID, bool) {
	printfTok := p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'printf'"); !ok {
		return ast.NoStmtID, false
	}
	lit, ok := p.expect(token.StringLit, diag.SynExpectString, "expected string literal in printf")
	if !ok {
		return ast.NoStmtID, false
	}
	if p.at(token.Comma) {
		p.err(diag.SynUnexpectedToken, "printf accepts a single string literal")
		return ast.NoStmtID, false
	}
	if _, ok = p.expect(
		token.RParen,
		diag.SynUnclosedParen,
		"expected ')' after printf argument",
		p.insertAfterLast(diag.SynUnclosedParen, ")", "insert ')' after printf argument"),
	); !ok {
		return ast.NoStmtID, false
	}
	semi, ok := p.expectSemicolon("printf statement")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewOutput(printfTok.Span.Cover(semi.Span), lit.Text, lit.Span), true
}

// terminar := "break" ";"
func (p *Parser) parseBreakStmt() (ast.StmtID, bool) {
	breakTok := p.advance()
	semi, ok := p.expectSemicolon("break statement")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewBreak(breakTok.Span.Cover(semi.Span)), true
}
