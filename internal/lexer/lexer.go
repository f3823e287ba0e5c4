// Package lexer turns schema DSL text into a flat token stream.
//
// Whitespace and newlines only separate tokens, a '#' outside a string
// literal starts a comment running to the end of the line, and characters
// the lexer cannot classify are emitted as single-character punctuation so
// the parser can reject them with context.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/reoring/strschema/report"
)

// Kind is the token type.
type Kind int

const (
	EOF Kind = iota
	Ident
	Number
	String
	Punct
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of input"
	case Ident:
		return "identifier"
	case Number:
		return "number"
	case String:
		return "string"
	case Punct:
		return "punctuation"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a lexical unit of the DSL.
type Token struct {
	Kind    Kind
	Text    string // verbatim source text
	Value   string // decoded value; equals Text except for string literals
	Pos     report.Pos
	End     int  // byte offset just past the token
	Newline bool // a line break separates this token from the previous one
}

// Is reports whether t is the punctuation p.
func (t Token) Is(p string) bool { return t.Kind == Punct && t.Text == p }

// Len is the byte length of the token's source text.
func (t Token) Len() int { return t.End - t.Pos.Offset }

// Describe renders the token for error messages.
func (t Token) Describe() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case Ident:
		return fmt.Sprintf("identifier %q", t.Text)
	case Number:
		return "number " + t.Text
	case String:
		return "string " + t.Text
	}
	return fmt.Sprintf("'%s'", t.Text)
}

// Lex scans src into tokens. The returned slice always ends with an EOF
// token. The only lexical error is an unterminated string literal.
func Lex(src string) ([]Token, error) {
	l := &lexer{src: src, line: 1, col: 1}
	for {
		l.skipSpaceAndComments()
		start := l.pos()
		if l.off >= len(l.src) {
			l.emit(EOF, "", start)
			return l.toks, nil
		}
		r, size := utf8.DecodeRuneInString(l.src[l.off:])
		switch {
		case isIdentStart(r):
			l.ident(start)
		case isDigit(r), r == '-' && isDigit(l.peekRune(size)):
			l.number(start)
		case r == '"' || r == '\'':
			if err := l.str(start, r); err != nil {
				return nil, err
			}
		default:
			l.advance(r, size)
			l.emit(Punct, l.src[start.Offset:l.off], start)
		}
	}
}

type lexer struct {
	src     string
	off     int
	line    int
	col     int
	newline bool
	toks    []Token
}

func (l *lexer) pos() report.Pos {
	return report.Pos{Offset: l.off, Line: l.line, Column: l.col}
}

func (l *lexer) emit(kind Kind, value string, start report.Pos) {
	l.toks = append(l.toks, Token{
		Kind:    kind,
		Text:    l.src[start.Offset:l.off],
		Value:   value,
		Pos:     start,
		End:     l.off,
		Newline: l.newline,
	})
	l.newline = false
}

func (l *lexer) advance(r rune, size int) {
	l.off += size
	if r == '\n' {
		l.line++
		l.col = 1
		return
	}
	l.col++
}

// peekRune decodes the rune skip bytes past the current offset.
func (l *lexer) peekRune(skip int) rune {
	if l.off+skip >= len(l.src) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.off+skip:])
	return r
}

func (l *lexer) skipSpaceAndComments() {
	for l.off < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.off:])
		switch {
		case r == '#':
			for l.off < len(l.src) && l.src[l.off] != '\n' {
				r, size := utf8.DecodeRuneInString(l.src[l.off:])
				l.advance(r, size)
			}
		case unicode.IsSpace(r):
			if r == '\n' {
				l.newline = true
			}
			l.advance(r, size)
		default:
			return
		}
	}
}

func (l *lexer) ident(start report.Pos) {
	for l.off < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.off:])
		if !isIdentStart(r) && !isDigit(r) {
			break
		}
		l.advance(r, size)
	}
	text := l.src[start.Offset:l.off]
	l.emit(Ident, text, start)
}

func (l *lexer) number(start report.Pos) {
	if l.src[l.off] == '-' {
		l.advance('-', 1)
	}
	l.digits()
	if l.off < len(l.src) && l.src[l.off] == '.' && isDigit(l.peekRune(1)) {
		l.advance('.', 1)
		l.digits()
	}
	if l.off < len(l.src) && (l.src[l.off] == 'e' || l.src[l.off] == 'E') {
		skip := 1
		if next := l.peekRune(1); next == '+' || next == '-' {
			skip = 2
		}
		if isDigit(l.peekRune(skip)) {
			for i := 0; i < skip; i++ {
				l.advance(rune(l.src[l.off]), 1)
			}
			l.digits()
		}
	}
	l.emit(Number, l.src[start.Offset:l.off], start)
}

func (l *lexer) digits() {
	for l.off < len(l.src) && isDigit(rune(l.src[l.off])) {
		l.advance(rune(l.src[l.off]), 1)
	}
}

func (l *lexer) str(start report.Pos, quote rune) error {
	l.advance(quote, 1)
	var b strings.Builder
	for l.off < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.off:])
		switch r {
		case quote:
			l.advance(r, size)
			l.emit(String, b.String(), start)
			return nil
		case '\\':
			l.advance(r, size)
			if l.off >= len(l.src) {
				continue
			}
			esc, escSize := utf8.DecodeRuneInString(l.src[l.off:])
			l.advance(esc, escSize)
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteRune(esc)
			}
		default:
			l.advance(r, size)
			b.WriteRune(r)
		}
	}
	return report.Errorf(report.Lexical, report.CodeUnterminatedString, start, 1,
		"unterminated string literal")
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isDigit(r rune) bool { return '0' <= r && r <= '9' }
