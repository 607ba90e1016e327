// Package vm executes parsed forlang programs.
//
// A program is a sequence of top-level for loops sharing one flat Store of
// int64 variables. Each loop runs init once, then repeats
// check → body → update until the check fails or the body breaks; a break
// skips the pending update. Runtime faults are *VMError values with stable
// VM codes; a break is a Control result, never an error.
//
// Output lines go to a Runtime. A Recorder writes an NDJSON log of every
// store write and output line, and a Replayer checks a later run against it.
package vm
