// Package diag holds the diagnostics produced while lexing and parsing.
//
// A Diagnostic carries a Severity, a stable Code (rendered as e.g. "SYN2004"),
// a short message and the primary source.Span. Notes point at related spans.
// Fixes describe machine-applicable edits; they are plain data, applied by
// package fix and rendered by package diagfmt.
//
// Producers talk to a Reporter, usually through ReportBuilder:
//
//	diag.ReportError(rep, diag.SynExpectSemicolon, sp, "expected ';'").
//		WithFixSuggestion(f).
//		Emit()
//
// BagReporter stores everything in a Bag, which keeps a size limit and a
// deterministic order (see Bag.Sort).
package diag
