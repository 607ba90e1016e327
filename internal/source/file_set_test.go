package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("loop.fl", []byte("for"), 0)
	id2 := fs.Add("loop.fl", []byte("for (x=0;"), 0)
	if id1 == id2 {
		t.Fatalf("re-adding a path must allocate a new id, got %d twice", id1)
	}
	latest, ok := fs.GetLatest("loop.fl")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d,%v; want %d,true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "for" {
		t.Fatalf("old version content changed: %q", got)
	}
	if fs.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", fs.Len())
	}
}

func TestFileSetGetUnknown(t *testing.T) {
	fs := NewFileSet()
	if f := fs.Get(3); f != nil {
		t.Fatalf("expected nil for unknown id, got %+v", f)
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.fl", []byte("ab\ncd\n\nef"))

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // сам '\n' принадлежит первой строке
		{3, LineCol{2, 1}},
		{4, LineCol{2, 2}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{8, LineCol{4, 2}},
	}
	for _, tc := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if start != tc.want {
			t.Errorf("off %d: got %+v, want %+v", tc.off, start, tc.want)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.fl", []byte("first\nsecond\nthird")))

	want := map[uint32]string{0: "", 1: "first", 2: "second", 3: "third", 4: ""}
	for line, exp := range want {
		if got := f.GetLine(line); got != exp {
			t.Errorf("GetLine(%d) = %q, want %q", line, got, exp)
		}
	}
}

func TestLoadNormalizesBOMAndCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.fl")
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("for\r\n(x=0;\r\n")...)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "for\n(x=0;\n" {
		t.Fatalf("unexpected content %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("expected BOM and CRLF flags, got %b", f.Flags)
	}
}

func TestTextAndSpanHelpers(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.fl", []byte(`printf("hi");`))

	sp := Span{File: id, Start: 7, End: 11}
	if got := fs.Text(sp); got != `"hi"` {
		t.Fatalf("Text = %q", got)
	}
	outer := Span{File: id, Start: 0, End: 13}
	if !outer.Contains(sp) || sp.Contains(outer) {
		t.Fatal("Contains is wrong")
	}
	if got := sp.Cover(Span{File: id, Start: 0, End: 6}); got != (Span{File: id, Start: 0, End: 11}) {
		t.Fatalf("Cover = %v", got)
	}
	if z := sp.ZeroideToEnd(); !z.Empty() || z.Start != 11 {
		t.Fatalf("ZeroideToEnd = %v", z)
	}
}

func TestInterner(t *testing.T) {
	in := NewInterner()
	a := in.Intern("x")
	b := in.Intern("x")
	c := in.Intern("y")
	if a != b || a == c {
		t.Fatalf("interning broken: %d %d %d", a, b, c)
	}
	if s, ok := in.Lookup(c); !ok || s != "y" {
		t.Fatalf("Lookup(%d) = %q,%v", c, s, ok)
	}
	if _, ok := in.Lookup(99); ok {
		t.Fatal("Lookup of unknown id must fail")
	}
	if s, _ := in.Lookup(NoStringID); s != "" || in.Len() != 3 {
		t.Fatalf("unexpected reserved entry or length %d", in.Len())
	}
}
