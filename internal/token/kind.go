package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwPrintf represents the 'printf' keyword.
	KwPrintf // printf
	// KwBreak represents the 'break' keyword.
	KwBreak // break

	// IntLit is a decimal integer literal without sign.
	IntLit
	// StringLit is a literal delimited by '"' or '\''; Text keeps the delimiters.
	StringLit

	Assign    // =
	Semicolon // ;
	Comma     // ,
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }

	Lt     // <
	LtEq   // <=
	Gt     // >
	GtEq   // >=
	EqEq   // ==
	BangEq // !=
	Bang   // !

	PlusPlus   // ++
	MinusMinus // --
	Plus       // +
	Minus      // -
)

var kindNames = [...]string{
	Invalid:    "Invalid",
	EOF:        "EOF",
	Ident:      "Ident",
	KwFor:      "KwFor",
	KwPrintf:   "KwPrintf",
	KwBreak:    "KwBreak",
	IntLit:     "IntLit",
	StringLit:  "StringLit",
	Assign:     "Assign",
	Semicolon:  "Semicolon",
	Comma:      "Comma",
	LParen:     "LParen",
	RParen:     "RParen",
	LBrace:     "LBrace",
	RBrace:     "RBrace",
	Lt:         "Lt",
	LtEq:       "LtEq",
	Gt:         "Gt",
	GtEq:       "GtEq",
	EqEq:       "EqEq",
	BangEq:     "BangEq",
	Bang:       "Bang",
	PlusPlus:   "PlusPlus",
	MinusMinus: "MinusMinus",
	Plus:       "Plus",
	Minus:      "Minus",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(" + itoa(int(k)) + ")"
}

// Symbol returns the fixed spelling of punctuation, operators and keywords.
// Kinds with variable text (identifiers, literals) return "".
func (k Kind) Symbol() string {
	switch k {
	case KwFor:
		return "for"
	case KwPrintf:
		return "printf"
	case KwBreak:
		return "break"
	case Assign:
		return "="
	case Semicolon:
		return ";"
	case Comma:
		return ","
	case LParen:
		return "("
	case RParen:
		return ")"
	case LBrace:
		return "{"
	case RBrace:
		return "}"
	case Lt:
		return "<"
	case LtEq:
		return "<="
	case Gt:
		return ">"
	case GtEq:
		return ">="
	case EqEq:
		return "=="
	case BangEq:
		return "!="
	case Bang:
		return "!"
	case PlusPlus:
		return "++"
	case MinusMinus:
		return "--"
	case Plus:
		return "+"
	case Minus:
		return "-"
	default:
		return ""
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
