package ast

import "forlang/internal/source"

// File is the root of one program: its loops in source order.
type File struct {
	Span  source.Span
	Items []ItemID
}

type Files struct {
	Arena *Arena[FileID, File]
}

func NewFiles(capHint uint) *Files {
	return &Files{Arena: NewArena[FileID, File](capHint)}
}

func (f *Files) New(sp source.Span) FileID {
	return f.Arena.Allocate(File{Span: sp})
}

func (f *Files) Get(id FileID) *File { return f.Arena.Get(id) }
