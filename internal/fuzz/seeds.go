package fuzztests

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// maxFuzzInput caps both corpus seeds and generated inputs.
const maxFuzzInput = 64 << 10

var inlineSeeds = []string{
	"",
	`for (x = 0; x < 3; x++) { printf("hi"); }`,
	`for (x = 5; x > 0; x--) { printf('a'); break; }`,
	`for (i = -2; i != 2; i++) { printf("a"); printf("b"); }`,
	"for (a = 0; a <= 0; a++) { break; }\nfor (b = 1; b >= 1; b--) { printf(\"z\"); }",
	`for (x = 0 x < 3; x++) { printf("hi"); }`,
	`for (x == 0; x = 3; x += 1) { }`,
	`for (x = 99999999999999999999; x < 1; x++) { break; }`,
	"for (x = 0; x < 1; x++) { /* open",
	`printf("stray"); break;`,
	`for (ñ = 0; ñ < 1; ñ++) { printf("ünï"); }`,
}

// addCorpusSeeds seeds f with every program under testdata plus inlineSeeds.
func addCorpusSeeds(f *testing.F) {
	f.Helper()
	paths, _ := filepath.Glob(filepath.Join("..", "..", "testdata", "*", "*.fl"))
	for _, path := range paths {
		if src, err := os.ReadFile(path); err == nil { //nolint:gosec // repository testdata
			f.Add(clampInput(src))
		}
	}
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
}

// clampInput returns a private copy of at most maxFuzzInput bytes.
func clampInput(input []byte) []byte {
	return slices.Clone(input[:min(len(input), maxFuzzInput)])
}
