package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	cases := []struct {
		in   string
		kind Kind
		ok   bool
	}{
		{"for", KwFor, true},
		{"printf", KwPrintf, true},
		{"break", KwBreak, true},
		{"For", Invalid, false},
		{"PRINTF", Invalid, false},
		{"while", Invalid, false},
		{"print", Invalid, false},
		{"breaks", Invalid, false},
		{"", Invalid, false},
	}
	for _, tc := range cases {
		kind, ok := LookupKeyword(tc.in)
		if kind != tc.kind || ok != tc.ok {
			t.Errorf("LookupKeyword(%q) = %v, %v; want %v, %v", tc.in, kind, ok, tc.kind, tc.ok)
		}
	}
}
