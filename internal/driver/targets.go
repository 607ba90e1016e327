package driver

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"forlang/internal/project"
)

// listProgramFiles returns every program file under dir, sorted.
func listProgramFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() && filepath.Ext(path) == project.SourceExt {
			files = append(files, path)
		}
		return err
	})
	slices.Sort(files)
	return files, err
}

// ExpandTargets replaces each directory in targets by the program files under
// it. Plain files keep their position.
func ExpandTargets(targets []string) ([]string, error) {
	var out []string
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, target)
			continue
		}
		files, err := listProgramFiles(target)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}
