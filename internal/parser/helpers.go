package parser

import (
	"fmt"

	"forlang/internal/diag"
	"forlang/internal/fix"
	"forlang/internal/source"
	"forlang/internal/token"
)

// advance съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF {
		p.lastSpan = tok.Span
	}
	return tok
}

// на EOF указываем сразу за последним токеном, а не в конец файла
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && !p.lastSpan.Empty() {
		return p.lastSpan.ZeroideToEnd()
	}
	return peek.Span
}

// expect съедает токен kind k. Иначе репортит и возвращает (Invalid, false).
// decorate может добавить к диагностике заметки и fix-предложения.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string, decorate ...func(*diag.ReportBuilder)) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.emitDiagnostic(code, diag.SevError, diagSpan, msg+", got "+describe(p.lx.Peek()), decorate...)
	return token.Token{Kind: token.Invalid, Span: diagSpan, Text: p.lx.Peek().Text}, false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	return p.emitDiagnostic(code, sev, sp, msg)
}

func (p *Parser) emitDiagnostic(code diag.Code, sev diag.Severity, sp source.Span, msg string, decorate ...func(*diag.ReportBuilder)) bool {
	if p.opts.Reporter == nil {
		return false
	}
	if sev == diag.SevError {
		if p.budgetSpent() {
			return false
		}
		p.errors++
	}
	b := diag.NewReportBuilder(p.opts.Reporter, sev, code, sp, msg)
	for _, d := range decorate {
		if d != nil {
			d(b)
		}
	}
	b.Emit()
	return true
}

// insertAfterLast предлагает вставить text сразу за последним съеденным токеном.
func (p *Parser) insertAfterLast(code diag.Code, text, title string) func(*diag.ReportBuilder) {
	return func(b *diag.ReportBuilder) {
		insertSpan := p.lastSpan.ZeroideToEnd()
		suggestion := fix.InsertText(
			title,
			insertSpan,
			text,
			"",
			fix.WithID(fix.MakeFixID(code, insertSpan)),
			fix.WithKind(diag.FixKindQuickFix),
			fix.WithApplicability(diag.FixApplicabilityAlwaysSafe),
		)
		b.WithFixSuggestion(suggestion)
		b.WithNote(insertSpan, fmt.Sprintf("insert missing %q", text))
	}
}

func (p *Parser) expectSemicolon(after string) (token.Token, bool) {
	return p.expect(
		token.Semicolon,
		diag.SynExpectSemicolon,
		"expected ';' after "+after,
		p.insertAfterLast(diag.SynExpectSemicolon, ";", "insert ';' after "+after),
	)
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident:
		return fmt.Sprintf("identifier %q", tok.Text)
	case token.IntLit:
		return fmt.Sprintf("number %s", tok.Text)
	case token.StringLit:
		return fmt.Sprintf("string %s", tok.Text)
	}
	if tok.IsKeyword() {
		return fmt.Sprintf("keyword '%s'", tok.Text)
	}
	return fmt.Sprintf("%q", tok.Text)
}
