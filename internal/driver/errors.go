package driver

import "errors"

// ErrInvalidProgram is returned by Run when the program has syntax errors.
// The VM never runs such a program.
var ErrInvalidProgram = errors.New("invalid program")
