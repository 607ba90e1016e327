package driver

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forlang/internal/diag"
)

func parseTestdata(t *testing.T, rel string) *ParseResult {
	t.Helper()
	res, err := Parse(context.Background(), filepath.Join("..", "..", "testdata", rel), 20)
	require.NoError(t, err)
	return res
}

func TestGoldenMissingSemicolon(t *testing.T) {
	res := parseTestdata(t, "invalid/missing_semicolon.fl")
	path := "../../testdata/invalid/missing_semicolon.fl"
	want := "note SYN2004 " + path + `:1:11 insert missing ";"` + "\n" +
		"error SYN2004 " + path + `:1:12 expected ';' after loop initialization, got identifier "i"`
	assert.Equal(t, want, diag.FormatGoldenDiagnostics(res.Bag.Items(), res.FileSet, true))
}

func TestGoldenInvalidPrograms(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "testdata", "invalid", "*.fl"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			res := parseTestdata(t, filepath.Join("invalid", filepath.Base(file)))
			require.False(t, res.Valid())

			golden := diag.FormatGoldenDiagnostics(res.Bag.Items(), res.FileSet, false)
			lines := strings.Split(golden, "\n")
			seen := make(map[string]bool, len(lines))
			for _, line := range lines {
				assert.True(t, strings.HasPrefix(line, "error "), line)
				assert.False(t, seen[line], "duplicate diagnostic %q", line)
				seen[line] = true
			}
			assert.Equal(t, golden, diag.FormatGoldenDiagnostics(res.Bag.Items(), res.FileSet, false))
		})
	}
}

func TestGoldenValidProgramsAreClean(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "testdata", "valid", "*.fl"))
	require.NoError(t, err)
	for _, file := range files {
		res := parseTestdata(t, filepath.Join("valid", filepath.Base(file)))
		assert.Empty(t, diag.FormatGoldenDiagnostics(res.Bag.Items(), res.FileSet, true), file)
	}
}
