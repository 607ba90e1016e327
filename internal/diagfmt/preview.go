package diagfmt

import (
	"bytes"
	"fmt"
	"strings"

	"forlang/internal/diag"
	"forlang/internal/source"
)

// editPreview holds the whole lines touched by an edit, before and after it applies.
type editPreview struct {
	before []string
	after  []string
}

func previewEdit(fs *source.FileSet, edit diag.TextEdit) (editPreview, error) {
	if fs == nil {
		return editPreview{}, fmt.Errorf("preview: nil file set")
	}
	f := fs.Get(edit.Span.File)
	if f == nil {
		return editPreview{}, fmt.Errorf("preview: unknown file %d", edit.Span.File)
	}
	content := f.Content
	start, end := int(edit.Span.Start), int(edit.Span.End)
	if start > end || end > len(content) {
		return editPreview{}, fmt.Errorf("preview: span %s outside of %s", edit.Span, f.Path)
	}

	// расширяем до целых строк
	lo := bytes.LastIndexByte(content[:start], '\n') + 1
	hi := len(content)
	if nl := bytes.IndexByte(content[end:], '\n'); nl >= 0 {
		hi = end + nl + 1
	}

	var after strings.Builder
	after.Write(content[lo:start])
	after.WriteString(edit.NewText)
	after.Write(content[end:hi])

	return editPreview{
		before: previewLines(string(content[lo:hi])),
		after:  previewLines(after.String()),
	}, nil
}

func previewLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
