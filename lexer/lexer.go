package lexer

import (
	"bufio"
	"io"
	"unicode"

	"github.com/pontaoski/plaia/errors"
	"github.com/pontaoski/plaia/types"
)

// Lexer turns source text into tokens. pos always points at the next
// unread rune.
type Lexer struct {
	pos          types.Position
	prev         types.Position
	last         types.Position
	reader       *bufio.Reader
	peeked       *types.Token
	peekedString string
}

func NewLexer(reader io.Reader, filename string) *Lexer {
	return &Lexer{
		pos:    types.Position{Line: 1, Column: 1, Filename: filename},
		reader: bufio.NewReader(reader),
	}
}

// End returns the position just past the last token handed out by Lex.
func (l *Lexer) End() types.Position {
	return l.last
}

func (l *Lexer) read() (rune, error) {
	r, size, err := l.reader.ReadRune()
	if err != nil {
		return r, err
	}

	l.prev = l.pos
	l.pos.Offset += size
	if r == '\n' {
		l.pos.Line++
		l.pos.Column = 1
	} else {
		l.pos.Column++
	}
	return r, nil
}

func (l *Lexer) backup() {
	if err := l.reader.UnreadRune(); err != nil {
		panic(err)
	}

	l.pos = l.prev
}

// peekByte looks at the next byte without consuming it; ok is false at EOF.
func (l *Lexer) peekByte() (byte, bool) {
	byt, err := l.reader.Peek(1)
	if err != nil && err != io.EOF {
		panic(err)
	}
	if len(byt) == 0 {
		return 0, false
	}
	return byt[0], true
}

func (l *Lexer) span(from types.Position) types.Span {
	return types.Span{From: from, To: l.pos}
}

func firstChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func otherChar(r rune) bool {
	return firstChar(r) || unicode.IsDigit(r)
}

func (l *Lexer) lexWhile(first rune, pred func(rune) bool) string {
	lit := string(first)

	for {
		r, err := l.read()
		if err != nil {
			if err == io.EOF {
				return lit
			}
			panic(err)
		}

		if !pred(r) {
			l.backup()
			return lit
		}
		lit += string(r)
	}
}

func (l *Lexer) skipLine() {
	for {
		r, err := l.read()
		if err != nil {
			if err == io.EOF {
				return
			}
			panic(err)
		}
		if r == '\n' {
			return
		}
	}
}

func (l *Lexer) Peek() (types.Token, string) {
	if l.peeked != nil {
		return *l.peeked, l.peekedString
	}

	tok, str := l.next()
	l.peeked = &tok
	l.peekedString = str

	return tok, str
}

func (l *Lexer) PeekIs(k ...types.TokenKind) bool {
	token, _ := l.Peek()
	for _, kind := range k {
		if token.Kind == kind {
			return true
		}
	}

	return false
}

func (l *Lexer) LexExpecting(k ...types.TokenKind) (types.Token, string) {
	token, lit := l.Lex()
	for _, kind := range k {
		if token.Kind == kind {
			return token, lit
		}
	}

	panic(errors.ExpectedOneOfKindGotKind{
		Expected: k,
		Got:      token.Kind,
		Location: token.Location,
	})
}

var keywords = map[string]types.TokenKind{
	"def":    types.DEF,
	"let":    types.LET,
	"case":   types.CASE,
	"if":     types.IF,
	"return": types.RETURN,
	"true":   types.TRUE,
	"false":  types.FALSE,
	"_":      types.UNDERSCORE,
}

var singles = map[rune]types.TokenKind{
	':': types.COLON,
	'(': types.LPAREN,
	')': types.RPAREN,
	'{': types.LBRACE,
	'}': types.RBRACE,
	'[': types.LBRACKET,
	']': types.RBRACKET,
	',': types.COMMA,
	';': types.EOS,
	'+': types.PLUS,
	'-': types.MINUS,
	'*': types.STAR,
}

// doubles lists the operators that are one rune, optionally followed by a
// second one that changes their meaning.
var doubles = map[rune]struct {
	alone  types.TokenKind
	second byte
	paired types.TokenKind
}{
	'&': {types.AMP, '&', types.AND},
	'|': {types.ILLEGAL, '|', types.OR},
	'!': {types.ILLEGAL, '=', types.NEQ},
	'<': {types.LT, '=', types.LTE},
	'>': {types.GT, '=', types.GTE},
}

func (l *Lexer) Lex() (types.Token, string) {
	var (
		tok types.Token
		lit string
	)
	if l.peeked != nil {
		tok, lit = *l.peeked, l.peekedString
		l.peeked = nil
	} else {
		tok, lit = l.next()
	}

	l.last = tok.Location.To
	return tok, lit
}

func (l *Lexer) next() (types.Token, string) {
	for {
		from := l.pos
		r, err := l.read()
		if err != nil {
			if err == io.EOF {
				return types.Token{Kind: types.EOF, Location: l.span(from)}, ""
			}
			panic(err)
		}

		switch {
		case r == '=':
			if byt, ok := l.peekByte(); ok && (byt == '>' || byt == '=') {
				l.read()
				if byt == '>' {
					return types.Token{Kind: types.FATARROW, Location: l.span(from)}, "=>"
				}
				return types.Token{Kind: types.EQ, Location: l.span(from)}, "=="
			}
			return types.Token{Kind: types.EQUALS, Location: l.span(from)}, "="
		case r == '/':
			if byt, ok := l.peekByte(); ok && byt == '/' {
				l.skipLine()
				continue
			}
			return types.Token{Kind: types.SLASH, Location: l.span(from)}, "/"
		}

		if kind, ok := singles[r]; ok {
			return types.Token{Kind: kind, Location: l.span(from)}, string(r)
		}

		if op, ok := doubles[r]; ok {
			if byt, ok := l.peekByte(); ok && byt == op.second {
				l.read()
				return types.Token{Kind: op.paired, Location: l.span(from)}, string(r) + string(op.second)
			}
			if op.alone == types.ILLEGAL {
				panic(errors.UnexpectedCharacter{Char: r, Location: l.span(from)})
			}
			return types.Token{Kind: op.alone, Location: l.span(from)}, string(r)
		}

		switch {
		case unicode.IsSpace(r):
			continue
		case unicode.IsDigit(r):
			lit := l.lexWhile(r, unicode.IsDigit)
			return types.Token{Kind: types.INT, Location: l.span(from)}, lit
		case firstChar(r):
			lit := l.lexWhile(r, otherChar)
			if kind, ok := keywords[lit]; ok {
				return types.Token{Kind: kind, Location: l.span(from)}, lit
			}
			return types.Token{Kind: types.IDENT, Location: l.span(from)}, lit
		}

		panic(errors.UnexpectedCharacter{Char: r, Location: l.span(from)})
	}
}

type testToken struct {
	t types.Token
	s string
}

func (l *Lexer) lexToEOF() (ret []testToken) {
	t, s := l.Lex()
	for t.Kind != types.EOF {
		ret = append(ret, testToken{
			t: t,
			s: s,
		})
		t, s = l.Lex()
	}
	return
}
