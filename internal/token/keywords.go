package token

// LookupKeyword reports whether ident is one of the three keywords.
// Регистр значим: "For" и "PRINTF" остаются идентификаторами.
func LookupKeyword(ident string) (Kind, bool) {
	switch ident {
	case "for":
		return KwFor, true
	case "printf":
		return KwPrintf, true
	case "break":
		return KwBreak, true
	}
	return Invalid, false
}
