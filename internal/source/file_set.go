package source

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileSet owns every program file loaded during one CLI invocation. Files are
// never removed; adding a path again creates a new version with a new ID.
type FileSet struct {
	files   []File
	latest  map[string]FileID
	baseDir string
}

func NewFileSet() *FileSet { return NewFileSetWithBase("") }

// NewFileSetWithBase creates a FileSet whose relative paths are rendered
// against baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{latest: map[string]FileID{}, baseDir: baseDir}
}

// BaseDir is the directory relative paths are rendered against; the working
// directory when unset.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir != "" {
		return fs.baseDir
	}
	wd, _ := os.Getwd()
	return wd
}

// Add stores already normalized content.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	path = filepath.ToSlash(filepath.Clean(path))

	var newlines []uint32
	for i, b := range content {
		if b == '\n' {
			newlines = append(newlines, uint32(i)) //nolint:gosec // sources over 4 GiB are not supported
		}
	}
	fs.files = append(fs.files, File{
		ID:      FileID(n),
		Path:    path,
		Content: content,
		LineIdx: newlines,
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.latest[path] = FileID(n)
	return FileID(n)
}

// Load reads path, strips a UTF-8 BOM and rewrites CRLF to LF. A lone '\r'
// is kept.
func (fs *FileSet) Load(path string) (FileID, error) {
	content, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return 0, err
	}
	var flags FileFlags
	if rest, ok := bytes.CutPrefix(content, utf8BOM); ok {
		content, flags = rest, flags|FileHadBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		content, flags = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")), flags|FileNormalizedCRLF
	}
	return fs.Add(path, content, flags), nil
}

// AddVirtual registers in-memory content (tests, stdin).
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns nil for an unknown id.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) < len(fs.files) {
		return &fs.files[id]
	}
	return nil
}

// GetLatest returns the newest version registered under path.
func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fs.latest[filepath.ToSlash(filepath.Clean(path))]
	return id, ok
}

func (fs *FileSet) Len() int { return len(fs.files) }

// Resolve converts both ends of span to line/column pairs.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	if f := fs.Get(span.File); f != nil {
		return f.position(span.Start), f.position(span.End)
	}
	return LineCol{}, LineCol{}
}

// Text returns the bytes covered by span, or "" for an out-of-range span.
func (fs *FileSet) Text(span Span) string {
	f := fs.Get(span.File)
	if f == nil || span.Start > span.End || int(span.End) > len(f.Content) {
		return ""
	}
	return string(f.Content[span.Start:span.End])
}
