package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0
	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexTokenTooLong             Code = 1005

	// Парсерные
	SynInfo                  Code = 2000
	SynUnexpectedToken       Code = 2001
	SynUnclosedParen         Code = 2002
	SynUnclosedBrace         Code = 2003
	SynExpectSemicolon       Code = 2004
	SynExpectIdentifier      Code = 2005
	SynExpectNumber          Code = 2006
	SynExpectString          Code = 2007
	SynExpectAssign          Code = 2008
	SynExpectRelOp           Code = 2009
	SynExpectIncOp           Code = 2010
	SynForBadHeader          Code = 2011
	SynEmptyLoopBody         Code = 2012
	SynUnexpectedTopLevel    Code = 2013
	SynIntegerOutOfRange     Code = 2014
	SynUnreachableAfterBreak Code = 2015
	SynTooManyErrors         Code = 2016
	SynExpectLoopBody        Code = 2017

	// Ввод-вывод
	IOLoadFileError Code = 4001

	// Наблюдаемость
	ObsTimings Code = 5001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number",
		LexTokenTooLong:             "Token too long",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynUnclosedBrace:            "Unclosed brace",
		SynExpectSemicolon:          "Expect semicolon",
		SynExpectIdentifier:         "Expect identifier",
		SynExpectNumber:             "Expect integer literal",
		SynExpectString:             "Expect string literal",
		SynExpectAssign:             "Expect '='",
		SynExpectRelOp:              "Expect relational operator",
		SynExpectIncOp:              "Expect '++' or '--'",
		SynForBadHeader:             "Malformed for header",
		SynEmptyLoopBody:            "Empty loop body",
		SynUnexpectedTopLevel:       "Unexpected top-level token",
		SynIntegerOutOfRange:        "Integer literal out of range",
		SynUnreachableAfterBreak:    "Unreachable statement after break",
		SynTooManyErrors:            "Too many errors",
		SynExpectLoopBody:           "Expect loop body",
		IOLoadFileError:             "Failed to load file",
		ObsTimings:                  "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
