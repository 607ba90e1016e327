package parser

import (
	"forlang/internal/ast"
	"forlang/internal/diag"
	"forlang/internal/fix"
	"forlang/internal/token"
)

// parseLoop разбирает
//
//	for ( init ; cond ; update ) { body }
func (p *Parser) parseLoop() (ast.ItemID, bool) {
	forTok := p.advance()

	if _, ok := p.expect(token.LParen, diag.SynForBadHeader, "expected '(' after 'for'"); !ok {
		return ast.NoItemID, false
	}
	init, ok := p.parseInit()
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok = p.expectSemicolon("loop initialization"); !ok {
		return ast.NoItemID, false
	}
	cond, ok := p.parseCond()
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok = p.expectSemicolon("loop condition"); !ok {
		return ast.NoItemID, false
	}
	update, ok := p.parseUpdate()
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok = p.expect(
		token.RParen,
		diag.SynUnclosedParen,
		"expected ')' to close the loop header",
		p.insertAfterLast(diag.SynUnclosedParen, ")", "insert ')' to close the loop header"),
	); !ok {
		return ast.NoItemID, false
	}

	body, ok := p.parseBody()
	if !ok {
		return ast.NoItemID, false
	}

	loop := ast.LoopItem{
		ForSpan: forTok.Span,
		Init:    init,
		Cond:    cond,
		Update:  update,
		Body:    body,
	}
	return p.arenas.Items.NewLoop(loop, forTok.Span.Cover(p.lastSpan)), true
}

// inicializacion := identificador "=" numero
func (p *Parser) parseInit() (ast.InitClause, bool) {
	var clause ast.InitClause
	name, nameTok, ok := p.parseIdent()
	if !ok {
		return clause, false
	}
	if p.at(token.EqEq) {
		// частая опечатка: x==0 вместо x=0
		tok := p.lx.Peek()
		p.emitDiagnostic(diag.SynExpectAssign, diag.SevError, tok.Span, "expected '=' in loop initialization, got '=='",
			func(b *diag.ReportBuilder) {
				b.WithFixSuggestion(fix.ReplaceSpan("replace '==' with '='", tok.Span, "=", "==",
					fix.WithID(fix.MakeFixID(diag.SynExpectAssign, tok.Span))))
			})
		return clause, false
	}
	if _, ok = p.expect(token.Assign, diag.SynExpectAssign, "expected '=' in loop initialization"); !ok {
		return clause, false
	}
	value, valueSpan, ok := p.parseNumber()
	if !ok {
		return clause, false
	}
	clause = ast.InitClause{
		Name:      name,
		NameSpan:  nameTok.Span,
		Value:     value,
		ValueSpan: valueSpan,
		Span:      nameTok.Span.Cover(valueSpan),
	}
	return clause, true
}

// condicion := identificador operador_relacional numero
func (p *Parser) parseCond() (ast.CondClause, bool) {
	var clause ast.CondClause
	name, nameTok, ok := p.parseIdent()
	if !ok {
		return clause, false
	}

	opTok := p.lx.Peek()
	if !opTok.IsRelOp() {
		decorate := func(*diag.ReportBuilder) {}
		if opTok.Kind == token.Assign {
			decorate = func(b *diag.ReportBuilder) {
				b.WithFixSuggestion(fix.ReplaceSpan("replace '=' with '=='", opTok.Span, "==", "=",
					fix.WithID(fix.MakeFixID(diag.SynExpectRelOp, opTok.Span)),
					fix.WithApplicability(diag.FixApplicabilityManualReview)))
			}
		}
		p.emitDiagnostic(diag.SynExpectRelOp, diag.SevError, p.getDiagnosticSpan(),
			"expected one of '<', '<=', '>', '>=', '==', '!=' in loop condition, got "+describe(opTok), decorate)
		return clause, false
	}
	p.advance()
	op, _ := ast.ParseRelOp(opTok.Text)

	value, valueSpan, ok := p.parseNumber()
	if !ok {
		return clause, false
	}
	clause = ast.CondClause{
		Name:      name,
		NameSpan:  nameTok.Span,
		Op:        op,
		OpSpan:    opTok.Span,
		Value:     value,
		ValueSpan: valueSpan,
		Span:      nameTok.Span.Cover(valueSpan),
	}
	return clause, true
}

// actualizacion := identificador operador_incremento
func (p *Parser) parseUpdate() (ast.UpdateClause, bool) {
	var clause ast.UpdateClause
	name, nameTok, ok := p.parseIdent()
	if !ok {
		return clause, false
	}
	opTok := p.lx.Peek()
	if !opTok.IsIncOp() {
		p.err(diag.SynExpectIncOp, "expected '++' or '--' in loop update, got "+describe(opTok))
		return clause, false
	}
	p.advance()
	op, _ := ast.ParseIncOp(opTok.Text)
	clause = ast.UpdateClause{
		Name:     name,
		NameSpan: nameTok.Span,
		Op:       op,
		OpSpan:   opTok.Span,
		Span:     nameTok.Span.Cover(opTok.Span),
	}
	return clause, true
}
