package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"forlang/internal/ast"
	"forlang/internal/source"
)

// derivation is a node of the concrete derivation tree; leaves carry token text.
type derivation struct {
	rule     string
	children []*derivation
}

func leaf(text string) *derivation { return &derivation{rule: text} }

func rule(name string, children ...*derivation) *derivation {
	return &derivation{rule: name, children: children}
}

func (d *derivation) write(sb *strings.Builder) {
	if len(d.children) == 0 {
		sb.WriteString(d.rule)
		return
	}
	sb.WriteByte('(')
	sb.WriteString(d.rule)
	for _, c := range d.children {
		sb.WriteByte(' ')
		c.write(sb)
	}
	sb.WriteByte(')')
}

// DerivationTree renders the parsed program as a LISP-style derivation tree:
//
//	(programa (instrucciones (instruccion (bucle for ( (inicializacion ...) ; ...))))
//
// Rules without children print as their bare name, so an empty program is
// "(programa instrucciones)". Token text is taken from fs when available.
func DerivationTree(builder *ast.Builder, fileID ast.FileID, fs *source.FileSet) (string, error) {
	file := builder.Files.Get(fileID)
	if file == nil {
		return "", fmt.Errorf("file %d not found", fileID)
	}

	instr := rule("instrucciones")
	for _, itemID := range file.Items {
		loop, ok := builder.Items.Loop(itemID)
		if !ok {
			return "", fmt.Errorf("item %d is not a loop", itemID)
		}
		instr.children = append(instr.children, rule("instruccion", loopDerivation(builder, loop, fs)))
	}

	var sb strings.Builder
	rule("programa", instr).write(&sb)
	return sb.String(), nil
}

// FormatDerivationTree writes DerivationTree followed by a newline.
func FormatDerivationTree(w io.Writer, builder *ast.Builder, fileID ast.FileID, fs *source.FileSet) error {
	s, err := DerivationTree(builder, fileID, fs)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	return err
}

func loopDerivation(builder *ast.Builder, loop *ast.LoopItem, fs *source.FileSet) *derivation {
	text := func(sp source.Span, fallback string) string {
		if fs != nil && !sp.Empty() {
			if t := fs.Text(sp); t != "" {
				return t
			}
		}
		return fallback
	}
	ident := func(id source.StringID, sp source.Span) *derivation {
		return rule("identificador", leaf(text(sp, builder.Name(id))))
	}
	number := func(v int64, sp source.Span) *derivation {
		return rule("numero", leaf(text(sp, strconv.FormatInt(v, 10))))
	}

	init := rule("inicializacion",
		ident(loop.Init.Name, loop.Init.NameSpan), leaf("="), number(loop.Init.Value, loop.Init.ValueSpan))
	cond := rule("condicion",
		ident(loop.Cond.Name, loop.Cond.NameSpan),
		rule("operador", leaf(loop.Cond.Op.String())),
		number(loop.Cond.Value, loop.Cond.ValueSpan))
	update := rule("actualizacion",
		ident(loop.Update.Name, loop.Update.NameSpan), leaf(loop.Update.Op.String()))

	return rule("bucle",
		leaf("for"), leaf("("), init, leaf(";"), cond, leaf(";"), update, leaf(")"),
		leaf("{"), sentencia(builder, loop.Body), leaf("}"))
}

// sentencia folds the statement list right-recursively: salida sentencia? | terminar.
func sentencia(builder *ast.Builder, body ast.StmtID) *derivation {
	block := builder.Stmts.Block(body)
	if block == nil || len(block.Stmts) == 0 {
		return rule("sentencia")
	}
	var build func(i int) *derivation
	build = func(i int) *derivation {
		stmt := builder.Stmts.Get(block.Stmts[i])
		var node *derivation
		switch {
		case stmt != nil && stmt.Kind == ast.StmtBreak:
			node = rule("sentencia", rule("terminar", leaf("break"), leaf(";")))
		case stmt != nil && stmt.Kind == ast.StmtOutput:
			out := builder.Stmts.Output(block.Stmts[i])
			node = rule("sentencia", rule("salida",
				leaf("printf"), leaf("("), rule("cadena", leaf(out.Literal)), leaf(")"), leaf(";")))
		default:
			node = rule("sentencia")
		}
		if i+1 < len(block.Stmts) && stmt != nil && stmt.Kind != ast.StmtBreak {
			node.children = append(node.children, build(i+1))
		}
		return node
	}
	return build(0)
}
