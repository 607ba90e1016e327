package project

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// ManifestNames are tried in this order in every directory.
var ManifestNames = []string{"forlang.toml", "forlang.yaml", "forlang.yml"}

// ancestors yields dir and then each parent up to the filesystem root.
func ancestors(dir string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			if !yield(dir) {
				return
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				return
			}
			dir = parent
		}
	}
}

// FindManifest looks for a manifest in startDir and its parents.
// The nearest one wins; ok is false when none exists.
func FindManifest(startDir string) (path string, ok bool, err error) {
	dir, err := filepath.Abs(cmp.Or(startDir, "."))
	if err != nil {
		return "", false, fmt.Errorf("manifest lookup: %w", err)
	}
	for d := range ancestors(dir) {
		for _, name := range ManifestNames {
			candidate := filepath.Join(d, name)
			switch _, statErr := os.Stat(candidate); {
			case statErr == nil:
				return candidate, true, nil
			case !errors.Is(statErr, fs.ErrNotExist):
				return "", false, fmt.Errorf("manifest lookup: %w", statErr)
			}
		}
	}
	return "", false, nil
}
