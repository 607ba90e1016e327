package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"forlang/internal/format"
	"forlang/internal/source"
)

// FormatOptions configures FormatPaths.
type FormatOptions struct {
	// Check leaves files untouched; Changed then means "would be rewritten".
	Check bool
	// Stdout returns the formatted bytes in FormatResult instead of writing them.
	Stdout         bool
	MaxDiagnostics int
	Options        format.Options
}

// FormatResult is the outcome for one file.
type FormatResult struct {
	Path      string
	Changed   bool
	Err       error
	Formatted []byte
}

// FormatPaths formats every program file found under paths. Programs with
// syntax errors get an Err wrapping ErrInvalidProgram and are left as is.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	files, err := ExpandTargets(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("format: no program files found")
	}

	results := make([]FormatResult, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := FormatResult{Path: path}
		res.Err = res.format(ctx, opts)
		results = append(results, res)
	}
	return results, nil
}

func (res *FormatResult) format(ctx context.Context, opts FormatOptions) error {
	out, changed, err := formatFile(ctx, res.Path, opts.MaxDiagnostics, opts.Options)
	if err != nil {
		return err
	}
	switch {
	case opts.Check:
	case opts.Stdout:
		res.Formatted = out
	case changed:
		if err := writeKeepingMode(res.Path, out); err != nil {
			return err
		}
	}
	res.Changed = changed
	return nil
}

func writeKeepingMode(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return os.WriteFile(path, data, perm)
}

func formatFile(ctx context.Context, path string, maxDiagnostics int, fopts format.Options) ([]byte, bool, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, false, err
	}
	file := fs.Get(id)

	if maxDiagnostics <= 0 {
		maxDiagnostics = 256
	}
	parsed, err := parseLoaded(ctx, fs, file, maxDiagnostics)
	if err != nil {
		return nil, false, err
	}
	if !parsed.Valid() {
		return nil, false, fmt.Errorf("%w: syntax errors present", ErrInvalidProgram)
	}
	out, err := format.FormatFile(file, parsed.Builder, parsed.FileID, fopts)
	if err != nil {
		return nil, false, err
	}
	// BOM и CRLF снимаются при загрузке, такой файл тоже считается изменённым
	normalized := file.Flags&(source.FileHadBOM|source.FileNormalizedCRLF) != 0
	return out, normalized || !bytes.Equal(file.Content, out), nil
}
