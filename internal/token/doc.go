// Package token defines lexical token kinds and trivia for forlang programs.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Comments and whitespace are leading Trivia and never appear in the main stream.
//   - A leading '-' of a negative number is a separate Minus token; the parser folds it.
package token
