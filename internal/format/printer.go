package format

import (
	"bytes"
	"context"
	"errors"
	"strconv"

	"forlang/internal/ast"
	"forlang/internal/diag"
	"forlang/internal/lexer"
	"forlang/internal/parser"
	"forlang/internal/source"
	"forlang/internal/token"
)

type Options struct {
	IndentWidth int
	UseTabs     bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth <= 0 {
		o.IndentWidth = 4
	}
	return o
}

type printer struct {
	builder  *ast.Builder
	file     *ast.File
	writer   *Writer
	comments []source.Span
}

// FormatFile prints the program in canonical layout: one blank line between
// loops, one statement per line, a single space around operators in the header.
// Comments between loops are kept; a loop that has comments inside is copied as is.
func FormatFile(sf *source.File, b *ast.Builder, fid ast.FileID, opt Options) ([]byte, error) {
	if sf == nil {
		return nil, errors.New("format: nil source file")
	}
	if b == nil {
		return nil, errors.New("format: nil builder")
	}
	if !fid.IsValid() {
		return nil, errors.New("format: invalid file id")
	}
	file := b.Files.Get(fid)
	if file == nil {
		return nil, errors.New("format: missing ast file")
	}

	pr := printer{
		builder:  b,
		file:     file,
		writer:   NewWriter(sf, opt),
		comments: commentSpans(sf),
	}
	pr.printFile()
	return pr.writer.Bytes(), nil
}

func (p *printer) printFile() {
	w := p.writer
	content := w.sf.Content
	prev := 0
	for _, itemID := range p.file.Items {
		item := p.builder.Items.Get(itemID)
		if item == nil {
			continue
		}
		start := clampOffset(int(item.Span.Start), len(content))
		w.BlankLine()
		if prev < start {
			w.WriteComments(content[prev:start])
		}
		p.printItem(itemID, item)
		w.Newline()
		prev = max(clampOffset(int(item.Span.End), len(content)), start)
	}
	if prev < len(content) && len(bytes.TrimSpace(content[prev:])) > 0 {
		w.BlankLine()
		w.WriteComments(content[prev:])
	}
}

func (p *printer) printItem(id ast.ItemID, item *ast.Item) {
	if item.Kind == ast.ItemLoop && !p.hasCommentIn(item.Span) {
		if loop, ok := p.builder.Items.Loop(id); ok {
			p.printLoop(loop)
			return
		}
	}
	// fallback copy
	p.writer.CopySpan(item.Span)
}

func (p *printer) printLoop(loop *ast.LoopItem) {
	w := p.writer
	name := p.builder.Name
	w.WriteString("for (")
	w.WriteString(name(loop.Init.Name) + " = " + strconv.FormatInt(loop.Init.Value, 10))
	w.WriteString("; ")
	w.WriteString(name(loop.Cond.Name) + " " + loop.Cond.Op.String() + " " + strconv.FormatInt(loop.Cond.Value, 10))
	w.WriteString("; ")
	w.WriteString(name(loop.Update.Name) + loop.Update.Op.String())
	w.WriteString(") {")
	w.Newline()

	w.IndentPush()
	if block := p.builder.Stmts.Block(loop.Body); block != nil {
		for _, stmtID := range block.Stmts {
			p.printStmt(stmtID)
			w.Newline()
		}
	}
	w.IndentPop()
	w.WriteString("}")
}

func (p *printer) printStmt(id ast.StmtID) {
	stmt := p.builder.Stmts.Get(id)
	if stmt == nil {
		return
	}
	switch stmt.Kind {
	case ast.StmtOutput:
		out := p.builder.Stmts.Output(id)
		p.writer.WriteString("printf(" + out.Literal + ");")
	case ast.StmtBreak:
		p.writer.WriteString("break;")
	default:
		p.writer.CopySpan(stmt.Span)
	}
}

func (p *printer) hasCommentIn(sp source.Span) bool {
	for _, c := range p.comments {
		if sp.Contains(c) {
			return true
		}
	}
	return false
}

// commentSpans lexes sf once more and collects comment trivia.
// Comments after the last token are not attached to any token; they lie
// outside every loop and are handled as a gap.
func commentSpans(sf *source.File) []source.Span {
	lx := lexer.New(sf, lexer.Options{})
	var out []source.Span
	for {
		tok := lx.Next()
		for _, tr := range tok.Leading {
			if tr.Kind == token.TriviaLineComment || tr.Kind == token.TriviaBlockComment {
				out = append(out, tr.Span)
			}
		}
		if tok.Kind == token.EOF {
			return out
		}
	}
}

// CheckRoundTrip formats the file, parses the result again and requires the
// same loops and a fixed point: formatting the output changes nothing.
func CheckRoundTrip(sf *source.File, opt Options, maxDiag int) (ok bool, msg string) {
	origBag := diag.NewBag(maxDiag)
	origBuilder, origFileID := parseOnce(sf, origBag)
	if origBuilder.Files.Get(origFileID) == nil {
		return false, "fmt-check: initial parse failed"
	}
	if origBag.HasErrors() {
		return false, "fmt-check: initial parse has errors"
	}

	formatted, err := FormatFile(sf, origBuilder, origFileID, opt)
	if err != nil {
		return false, "fmt-check: formatter failed: " + err.Error()
	}

	fs2 := source.NewFileSetWithBase("")
	rebuilt := fs2.Get(fs2.AddVirtual(sf.Path, formatted))
	newBag := diag.NewBag(maxDiag)
	newBuilder, newFileID := parseOnce(rebuilt, newBag)
	if newBuilder.Files.Get(newFileID) == nil || newBag.HasErrors() {
		return false, "fmt-check: reparse failed"
	}
	if !sameLoops(origBuilder, origFileID, newBuilder, newFileID) {
		return false, "fmt-check: loops differ after round-trip"
	}

	again, err := FormatFile(rebuilt, newBuilder, newFileID, opt)
	if err != nil {
		return false, "fmt-check: formatter failed: " + err.Error()
	}
	if string(again) != string(formatted) {
		return false, "fmt-check: output is not stable"
	}
	return true, "fmt-check: OK"
}

func parseOnce(sf *source.File, bag *diag.Bag) (*ast.Builder, ast.FileID) {
	reporter := &diag.BagReporter{Bag: bag}
	lx := lexer.New(sf, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{}, nil)
	opts := parser.Options{Reporter: reporter, MaxErrors: uint(bag.Cap())}
	res := parser.ParseFile(context.Background(), lx, builder, opts)
	return builder, res.File
}

// sameLoops compares loop headers and bodies, ignoring spans.
func sameLoops(b1 *ast.Builder, f1 ast.FileID, b2 *ast.Builder, f2 ast.FileID) bool {
	s1, s2 := loopShapes(b1, f1), loopShapes(b2, f2)
	if len(s1) != len(s2) {
		return false
	}
	for i := range s1 {
		if s1[i] != s2[i] {
			return false
		}
	}
	return true
}

func loopShapes(b *ast.Builder, fid ast.FileID) []string {
	file := b.Files.Get(fid)
	if file == nil {
		return nil
	}
	out := make([]string, 0, len(file.Items))
	for _, id := range file.Items {
		loop, ok := b.Items.Loop(id)
		if !ok {
			out = append(out, "?")
			continue
		}
		shape := b.Name(loop.Init.Name) + "=" + strconv.FormatInt(loop.Init.Value, 10) + ";" +
			b.Name(loop.Cond.Name) + loop.Cond.Op.String() + strconv.FormatInt(loop.Cond.Value, 10) + ";" +
			b.Name(loop.Update.Name) + loop.Update.Op.String() + "{"
		if block := b.Stmts.Block(loop.Body); block != nil {
			for _, sid := range block.Stmts {
				if o := b.Stmts.Output(sid); o != nil {
					shape += "printf" + o.Literal + ";"
					continue
				}
				if st := b.Stmts.Get(sid); st != nil {
					shape += st.Kind.String() + ";"
				}
			}
		}
		out = append(out, shape+"}")
	}
	return out
}
