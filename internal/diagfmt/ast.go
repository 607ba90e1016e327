package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"forlang/internal/ast"
	"forlang/internal/source"
)

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Span     source.Span     `json:"span"`
	Text     string          `json:"text,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
	Fields   map[string]any  `json:"fields,omitempty"`
}

type treeNode struct {
	label    string
	children []*treeNode
}

// FormatASTPretty печатает дерево программы с ветками ├─ └─.
func FormatASTPretty(w io.Writer, builder *ast.Builder, fileID ast.FileID, fs *source.FileSet) error {
	file := builder.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("file %d not found", fileID)
	}
	header := "Program"
	if fs != nil {
		if src := fs.Get(file.Span.File); src != nil {
			header = "Program " + src.FormatPath("auto", fs.BaseDir())
		}
	}
	root := &treeNode{label: fmt.Sprintf("%s (span: %s)", header, formatSpan(file.Span, fs))}
	for i, itemID := range file.Items {
		root.children = append(root.children, loopTreeNode(builder, itemID, fs, i))
	}

	fmt.Fprintln(w, root.label)
	writeChildren(w, root.children, "")
	return nil
}

func writeChildren(w io.Writer, nodes []*treeNode, prefix string) {
	for i, n := range nodes {
		branch, next := "├─ ", "│  "
		if i == len(nodes)-1 {
			branch, next = "└─ ", "   "
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, branch, n.label)
		writeChildren(w, n.children, prefix+next)
	}
}

func loopTreeNode(builder *ast.Builder, itemID ast.ItemID, fs *source.FileSet, idx int) *treeNode {
	loop, ok := builder.Items.Loop(itemID)
	if !ok {
		return &treeNode{label: fmt.Sprintf("Loop[%d]: <nil>", idx)}
	}
	item := builder.Items.Get(itemID)
	name := builder.Name
	node := &treeNode{label: fmt.Sprintf("Loop[%d] (span: %s)", idx, formatSpan(item.Span, fs))}
	node.children = append(node.children,
		&treeNode{label: fmt.Sprintf("Init: %s = %d", name(loop.Init.Name), loop.Init.Value)},
		&treeNode{label: fmt.Sprintf("Cond: %s %s %d", name(loop.Cond.Name), loop.Cond.Op, loop.Cond.Value)},
		&treeNode{label: fmt.Sprintf("Update: %s%s", name(loop.Update.Name), loop.Update.Op)},
	)

	body := &treeNode{label: "Body"}
	if block := builder.Stmts.Block(loop.Body); block != nil {
		for _, stmtID := range block.Stmts {
			body.children = append(body.children, stmtTreeNode(builder, stmtID, fs))
		}
	} else {
		body.label = "Body: <none>"
	}
	node.children = append(node.children, body)
	return node
}

func stmtTreeNode(builder *ast.Builder, stmtID ast.StmtID, fs *source.FileSet) *treeNode {
	stmt := builder.Stmts.Get(stmtID)
	if stmt == nil {
		return &treeNode{label: "<nil>"}
	}
	switch stmt.Kind {
	case ast.StmtOutput:
		out := builder.Stmts.Output(stmtID)
		return &treeNode{label: fmt.Sprintf("Output %s (span: %s)", out.Literal, formatSpan(stmt.Span, fs))}
	case ast.StmtBreak:
		return &treeNode{label: fmt.Sprintf("Break (span: %s)", formatSpan(stmt.Span, fs))}
	default:
		return &treeNode{label: fmt.Sprintf("%s (span: %s)", stmt.Kind, formatSpan(stmt.Span, fs))}
	}
}

// FormatASTJSON пишет дерево программы в JSON.
func FormatASTJSON(w io.Writer, builder *ast.Builder, fileID ast.FileID) error {
	file := builder.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("file %d not found", fileID)
	}

	output := ASTNodeOutput{Type: "Program", Span: file.Span}
	for _, itemID := range file.Items {
		node, err := loopJSON(builder, itemID)
		if err != nil {
			return err
		}
		output.Children = append(output.Children, node)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func loopJSON(builder *ast.Builder, itemID ast.ItemID) (ASTNodeOutput, error) {
	loop, ok := builder.Items.Loop(itemID)
	if !ok {
		return ASTNodeOutput{}, fmt.Errorf("item %d is not a loop", itemID)
	}
	item := builder.Items.Get(itemID)
	node := ASTNodeOutput{
		Type: "Loop",
		Span: item.Span,
		Children: []ASTNodeOutput{
			{
				Type:   "InitStatement",
				Span:   loop.Init.Span,
				Fields: map[string]any{"name": builder.Name(loop.Init.Name), "value": loop.Init.Value},
			},
			{
				Type: "Condition",
				Span: loop.Cond.Span,
				Fields: map[string]any{
					"name":  builder.Name(loop.Cond.Name),
					"op":    loop.Cond.Op.String(),
					"value": loop.Cond.Value,
				},
			},
			{
				Type:   "UpdateStatement",
				Span:   loop.Update.Span,
				Fields: map[string]any{"name": builder.Name(loop.Update.Name), "op": loop.Update.Op.String()},
			},
		},
	}

	body := ASTNodeOutput{Type: "StatementSequence"}
	if stmt := builder.Stmts.Get(loop.Body); stmt != nil {
		body.Span = stmt.Span
	}
	if block := builder.Stmts.Block(loop.Body); block != nil {
		for _, stmtID := range block.Stmts {
			stmt := builder.Stmts.Get(stmtID)
			if stmt == nil {
				return ASTNodeOutput{}, fmt.Errorf("statement %d not found", stmtID)
			}
			child := ASTNodeOutput{Span: stmt.Span}
			switch stmt.Kind {
			case ast.StmtOutput:
				child.Type = "OutputStatement"
				child.Text = builder.Stmts.Output(stmtID).Literal
			case ast.StmtBreak:
				child.Type = "BreakStatement"
			default:
				child.Type = stmt.Kind.String()
			}
			body.Children = append(body.Children, child)
		}
	}
	node.Children = append(node.Children, body)
	return node, nil
}
