package diagfmt

import (
	"fmt"

	"forlang/internal/source"
)

// PathMode selects how file paths are printed.
type PathMode uint8

const (
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// pathModeNames doubles as the argument to source.File.FormatPath.
var pathModeNames = [...]string{"auto", "absolute", "relative", "basename"}

// ParsePathMode maps a CLI value onto PathMode; unknown values fall back to auto.
func ParsePathMode(s string) PathMode {
	for i, name := range pathModeNames {
		if name == s {
			return PathMode(i)
		}
	}
	return PathModeAuto
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color       bool
	Context     int8 // строк контекста вокруг основной строки
	PathMode    PathMode
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
}

func displayPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	if int(mode) >= len(pathModeNames) {
		mode = PathModeAuto
	}
	base := ""
	if mode == PathModeRelative {
		base = fs.BaseDir()
	}
	return f.FormatPath(pathModeNames[mode], base)
}

// formatSpan renders "startLine:startCol-endLine:endCol", or byte offsets without a FileSet.
func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}
