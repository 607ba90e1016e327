package source

import (
	"os"
	"path/filepath"
	"slices"
)

type (
	FileID    uint32
	FileFlags uint8
)

const (
	// FileVirtual: content did not come from disk (tests, stdin).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM: a UTF-8 BOM was stripped on load.
	FileHadBOM
	// FileNormalizedCRLF: CRLF line endings were rewritten to LF on load.
	FileNormalizedCRLF
)

// File is one program source. Content is immutable once added.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based position.
type LineCol struct {
	Line uint32
	Col  uint32
}

// position maps a byte offset to its line and column. A '\n' belongs to the
// line it terminates.
func (f *File) position(off uint32) LineCol {
	line, _ := slices.BinarySearch(f.LineIdx, off)
	return LineCol{Line: uint32(line) + 1, Col: off - f.lineStart(line) + 1} //nolint:gosec // line <= len(LineIdx), which fits uint32
}

// lineStart is the offset of the 0-based line i.
func (f *File) lineStart(i int) uint32 {
	if i == 0 {
		return 0
	}
	return f.LineIdx[i-1] + 1
}

// GetLine returns line n (1-based) without its newline, or "" when there is
// no such line.
func (f *File) GetLine(n uint32) string {
	i := int(n) - 1
	if n == 0 || i > len(f.LineIdx) {
		return ""
	}
	end := len(f.Content)
	if i < len(f.LineIdx) {
		end = int(f.LineIdx[i])
	}
	return string(f.Content[f.lineStart(i):end])
}

// FormatPath renders Path in one of the modes "absolute", "relative",
// "basename" or "auto". Unknown modes and failures fall back to Path.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		abs, err := filepath.Abs(f.Path)
		if err != nil {
			break
		}
		if rel, err := filepath.Rel(baseDir, abs); err == nil {
			return filepath.ToSlash(rel)
		}
	case "basename":
		return filepath.Base(f.Path)
	case "auto":
		// длинные абсолютные пути сокращаем до имени
		if filepath.IsAbs(f.Path) && len(f.Path) >= 40 {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}
