package types

import (
	"fmt"
)

type Position struct {
	Offset   int
	Line     int
	Column   int
	Filename string
}

// Span covers the source bytes [From.Offset, To.Offset).
type Span struct {
	From Position
	To   Position
}

type TokenKind int

const (
	EOF TokenKind = iota
	ILLEGAL

	COLON
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	EQUALS
	FATARROW
	EOS

	PLUS
	MINUS
	STAR
	SLASH
	AMP

	EQ
	NEQ
	LT
	GT
	LTE
	GTE
	AND
	OR

	INT
	IDENT
	UNDERSCORE

	DEF
	LET
	CASE
	IF
	RETURN
	TRUE
	FALSE
)

func (t TokenKind) String() string {
	data := map[TokenKind]string{
		EOF:        "EOF",
		ILLEGAL:    "ILLEGAL",
		COLON:      "COLON",
		LPAREN:     "LPAREN",
		RPAREN:     "RPAREN",
		LBRACE:     "LBRACE",
		RBRACE:     "RBRACE",
		LBRACKET:   "LBRACKET",
		RBRACKET:   "RBRACKET",
		COMMA:      "COMMA",
		EQUALS:     "EQUALS",
		FATARROW:   "FATARROW",
		EOS:        "EOS",
		PLUS:       "PLUS",
		MINUS:      "MINUS",
		STAR:       "STAR",
		SLASH:      "SLASH",
		AMP:        "AMP",
		EQ:         "EQ",
		NEQ:        "NEQ",
		LT:         "LT",
		GT:         "GT",
		LTE:        "LTE",
		GTE:        "GTE",
		AND:        "AND",
		OR:         "OR",
		INT:        "INT",
		IDENT:      "IDENT",
		UNDERSCORE: "UNDERSCORE",
		DEF:        "DEF",
		LET:        "LET",
		CASE:       "CASE",
		IF:         "IF",
		RETURN:     "RETURN",
		TRUE:       "TRUE",
		FALSE:      "FALSE",
	}
	return data[t]
}

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.From, s.To.Line, s.To.Column)
}

// Slice returns the part of src covered by the span, or "" when the span
// does not fit inside src.
func (s Span) Slice(src string) string {
	if s.From.Offset < 0 || s.To.Offset > len(src) || s.From.Offset > s.To.Offset {
		return ""
	}
	return src[s.From.Offset:s.To.Offset]
}

func (s Span) IsZero() bool {
	return s == Span{}
}

// Join returns the span running from the start of a to the end of b.
func Join(a, b Span) Span {
	return Span{a.From, b.To}
}

func SingleCharSpan(p Position) Span {
	return Span{p, p}
}

type Token struct {
	Kind     TokenKind
	Location Span
}
