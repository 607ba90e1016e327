package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forlang/internal/observ"
	"forlang/internal/project"
)

func writeProgram(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--no-manifest", "--color", "off"}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRunSingleProgram(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "hi.fl", `for (x=0; x<2; x++) { printf("hi"); }`)
	stdout, _, err := execute(t, "run", path)
	require.NoError(t, err)
	assert.Equal(t, "hi\nhi\n", stdout)
}

func TestRunBatchKeepsOrderAndReportsFailures(t *testing.T) {
	dir := t.TempDir()
	writeProgram(t, dir, "a.fl", `for (i=0; i<1; i++) { printf("a"); }`)
	writeProgram(t, dir, "b.fl", `for (i=0 i<1; i++) { printf("b"); }`)

	stdout, stderr, err := execute(t, "run", "--ui", "off", dir)
	var ee *exitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 1, ee.code)
	assert.Contains(t, stdout, "a.fl <==\na\n")
	assert.Contains(t, stderr, "b.fl: INVALID")
	assert.Less(t, strings.Index(stdout, "a.fl"), strings.Index(stdout, "b.fl"))
}

func TestParseCommandVerdict(t *testing.T) {
	dir := t.TempDir()
	good := writeProgram(t, dir, "good.fl", `for (x=0; x<1; x++) { break; }`)
	bad := writeProgram(t, dir, "bad.fl", `for (x=0; x<1; x++ { break; }`)

	stdout, _, err := execute(t, "parse", "--format", "tree", good)
	require.NoError(t, err)
	assert.Contains(t, stdout, good+": VALID\n(programa (instrucciones")

	stdout, _, err = execute(t, "parse", "--format", "none", bad)
	require.Error(t, err)
	assert.Contains(t, stdout, bad+":1:")
	assert.Contains(t, stdout, bad+": INVALID\n")
}

func TestTokenizeTable(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "t.fl", `break;`)
	stdout, _, err := execute(t, "tokenize", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "| Lexema ")
	assert.Contains(t, stdout, "| break ")
	assert.Contains(t, stdout, "KwBreak")
}

func TestFmtCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeProgram(t, dir, "f.fl", `for(i=0;i<1;i++){break;}`)
	want := "for (i = 0; i < 1; i++) {\n    break;\n}\n"

	// флаги cobra переживают Execute, поэтому задаём их явно
	stdout, _, err := execute(t, "fmt", "--check=false", "--stdout=true", path)
	require.NoError(t, err)
	assert.Equal(t, want, stdout)

	stdout, _, err = execute(t, "fmt", "--check=true", "--stdout=false", path)
	var ee *exitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, path+"\n", stdout)

	stdout, _, err = execute(t, "fmt", "--check=false", "--stdout=false", path)
	require.NoError(t, err)
	assert.Equal(t, "reformatted "+path+"\n", stdout)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, string(raw))
}

func TestFixCommandInsertsSemicolon(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "fix.fl", `for (i=0 i<1; i++) { break; }`)
	stdout, _, err := execute(t, "fix", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Applied 1 fix(es):")
	assert.Contains(t, stdout, "Updated files:")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `for (i=0; i<1; i++) { break; }`, string(raw))
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "ON": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := readUIMode("sometimes")
	assert.Error(t, err)
	assert.True(t, shouldUseTUI(uiModeOn, 1))
	assert.False(t, shouldUseTUI(uiModeOff, 10))
}

func TestApplyManifestDefaults(t *testing.T) {
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	cmd.Flags().Uint64("max-iterations", 0, "")
	cmd.Flags().String("color", "auto", "")
	cmd.Flags().String("trace-level", "off", "")
	require.NoError(t, cmd.Flags().Set("color", "on"))

	m := &project.Manifest{Path: "forlang.toml"}
	m.Config.Limits.MaxIterations = 500
	m.Config.Output.Color = "off"
	m.Config.Trace.Level = "phase"
	require.NoError(t, applyManifestDefaults(cmd, m))

	maxIter, _ := cmd.Flags().GetUint64("max-iterations")
	colorFlag, _ := cmd.Flags().GetString("color")
	level, _ := cmd.Flags().GetString("trace-level")
	assert.Equal(t, uint64(500), maxIter)
	assert.Equal(t, "on", colorFlag, "explicit flags win over the manifest")
	assert.Equal(t, "phase", level)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
	assert.Equal(t, 3, exitCode(&exitError{code: 3}))
}

func TestPrintStoreSortsNames(t *testing.T) {
	var buf bytes.Buffer
	printStore(&buf, map[string]int64{"y": -1, "b": 2, "x": 0})
	assert.Equal(t, "b = 2\nx = 0\ny = -1\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestPrintReportReturnsWriteError(t *testing.T) {
	report := &observ.Report{Phases: []observ.PhaseReport{{Name: "parse", DurationMS: 1}}}
	err := printReport(failingWriter{}, report)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, report))
	assert.Contains(t, buf.String(), "timings:")
}
