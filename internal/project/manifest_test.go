package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadManifestTOML(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "forlang.toml"), `
[package]
name = "demo"

[run]
main = "main.fl"
files = ["extra"]

[limits]
max_iterations = 1000

[trace]
level = "detail"

[output]
color = "off"
`)
	writeFile(t, filepath.Join(root, "main.fl"), `for (x=0; x<1; x++) { printf("a"); }`)
	writeFile(t, filepath.Join(root, "extra", "b.fl"), `for (x=0; x<1; x++) { printf("b"); }`)

	sub := filepath.Join(root, "extra")
	m, ok, err := LoadManifestFrom(sub)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "demo", m.Config.Package.Name)
	assert.Equal(t, uint64(1000), m.Config.Limits.MaxIterations)
	assert.Equal(t, "detail", m.Config.Trace.Level)
	assert.Equal(t, "off", m.Config.Output.Color)

	targets, err := m.RunTargets()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(m.Root, "main.fl"), filepath.Join(m.Root, "extra")}, targets)
}

func TestLoadManifestYAML(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "forlang.yaml")
	writeFile(t, path, "package:\n  name: yamlish\nrun:\n  files: [a.fl]\nlimits:\n  max_iterations: 7\n")

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "yamlish", m.Config.Package.Name)
	assert.Equal(t, []string{"a.fl"}, m.Config.Run.Files)
	assert.Equal(t, uint64(7), m.Config.Limits.MaxIterations)
}

func TestLoadManifestErrors(t *testing.T) {
	cases := map[string]string{
		"forlang.toml": "[run]\nmain = \"a.fl\"\n",
		"forlang.yml":  "package:\n  name: x\nrun:\n  main: a.fl\nbogus: 1\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			writeFile(t, path, content)
			_, err := LoadManifest(path)
			assert.Error(t, err)
		})
	}

	t.Run("missing run", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "forlang.toml")
		writeFile(t, path, "[package]\nname = \"x\"\n")
		_, err := LoadManifest(path)
		assert.ErrorContains(t, err, "missing [run]")
	})

	t.Run("bad color", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "forlang.toml")
		writeFile(t, path, "[package]\nname = \"x\"\n[run]\nmain = \"a.fl\"\n[output]\ncolor = \"rainbow\"\n")
		_, err := LoadManifest(path)
		assert.ErrorContains(t, err, "rainbow")
	})
}

func TestRunTargetsRejectsForeignFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "notes.txt"), "hi")
	m := &Manifest{Path: filepath.Join(root, "forlang.toml"), Root: root, Config: Config{Run: RunConfig{Main: "notes.txt"}}}
	_, err := m.RunTargets()
	assert.ErrorContains(t, err, ".fl")

	m.Config.Run.Main = "missing.fl"
	_, err = m.RunTargets()
	assert.ErrorContains(t, err, "does not exist")
}

func TestFindManifestNone(t *testing.T) {
	// TempDir обычно лежит вне любого проекта
	_, ok, err := LoadManifestFrom(t.TempDir())
	require.NoError(t, err)
	if ok {
		t.Skip("a forlang manifest exists above the temp dir")
	}
}

func TestDigestCombine(t *testing.T) {
	var content Digest
	content[0] = 1
	a := Combine(content, []byte("max=1"))
	b := Combine(content, []byte("max=2"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Combine(content, []byte("max=1")))
	assert.False(t, a.IsZero())
	assert.Len(t, a.Hex(), 64)
}

func TestFindManifestNearestWins(t *testing.T) {
	root := t.TempDir()
	deep := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(deep, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "forlang.toml"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "forlang.yaml"), nil, 0o600))

	path, ok, err := FindManifest(deep)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "a", "forlang.yaml"), path)
}
