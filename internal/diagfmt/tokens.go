package diagfmt

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"forlang/internal/source"
	"forlang/internal/token"
)

type TokenOutput struct {
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Span    source.Span `json:"span"`
	Leading []string    `json:"leading,omitempty"`
}

const (
	lexemeColumn = 14
	tokenColumn  = 30
)

// upToEOF yields tokens up to and including the first EOF.
func upToEOF(tokens []token.Token) []token.Token {
	for i, tok := range tokens {
		if tok.Kind == token.EOF {
			return tokens[:i+1]
		}
	}
	return tokens
}

func leadingKinds(tok token.Token) []string {
	var kinds []string
	for _, tr := range tok.Leading {
		kinds = append(kinds, tr.Kind.String())
	}
	return kinds
}

// FormatTokensTable печатает таблицу "Lexema | Token" без EOF. Ширина колонок
// считается в экранных клетках, длинные лексемы обрезаются.
func FormatTokensTable(w io.Writer, tokens []token.Token) error {
	bw := bufio.NewWriter(w)
	rule := strings.Repeat("-", lexemeColumn+tokenColumn+7)
	row := func(lexeme, kind string) {
		fmt.Fprintf(bw, "| %s | %s |\n",
			runewidth.FillRight(runewidth.Truncate(lexeme, lexemeColumn, "…"), lexemeColumn),
			runewidth.FillRight(kind, tokenColumn))
	}

	fmt.Fprintln(bw, rule)
	row("Lexema", "Token")
	fmt.Fprintln(bw, rule)
	for _, tok := range upToEOF(tokens) {
		if tok.Kind != token.EOF {
			row(tok.Text, tok.Kind.String())
		}
	}
	fmt.Fprintln(bw, rule)
	return bw.Flush()
}

// FormatTokensPretty prints one numbered token per line with its range and
// leading trivia:
//
//	1: KwFor        "for" at 1:1-1:4
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	bw := bufio.NewWriter(w)
	for i, tok := range upToEOF(tokens) {
		from, to := fs.Resolve(tok.Span)
		fmt.Fprintf(bw, "%3d: %-12s", i+1, tok.Kind)
		if tok.Text != "" {
			fmt.Fprintf(bw, " %q", tok.Text)
		}
		fmt.Fprintf(bw, " at %d:%d-%d:%d", from.Line, from.Col, to.Line, to.Col)
		if kinds := leadingKinds(tok); len(kinds) > 0 {
			fmt.Fprintf(bw, " (leading: %s)", strings.Join(kinds, ", "))
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	toks := upToEOF(tokens)
	out := make([]TokenOutput, len(toks))
	for i, tok := range toks {
		out[i] = TokenOutput{Kind: tok.Kind.String(), Text: tok.Text, Span: tok.Span, Leading: leadingKinds(tok)}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
