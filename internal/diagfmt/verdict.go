package diagfmt

import (
	"fmt"
	"io"

	"forlang/internal/diag"
	"forlang/internal/source"
)

// Verdict prints one "file:line:col – message" line per error followed by
// "<path>: VALID" or "<path>: INVALID". It reports whether the program is valid.
func Verdict(w io.Writer, path string, bag *diag.Bag, fs *source.FileSet) bool {
	valid := bag == nil || !bag.HasErrors()
	if !valid {
		for _, d := range bag.Items() {
			if d.Severity != diag.SevError {
				continue
			}
			start, _ := fs.Resolve(d.Primary)
			fmt.Fprintf(w, "%s:%d:%d – %s\n", path, start.Line, start.Col, d.Message)
		}
	}
	if valid {
		fmt.Fprintf(w, "%s: VALID\n", path)
	} else {
		fmt.Fprintf(w, "%s: INVALID\n", path)
	}
	return valid
}
