// Package lexer turns a source string into a forward-linked list of
// tokens. Scanning is a single left-to-right pass; once the whole input
// has been consumed, a second pass reclassifies identifiers that match
// a keyword into RESERVED tokens - keyword recognition is easier to get
// right as a post-pass than as special cases in the identifier rule.
package lexer

import (
	"github.com/KT-314/Compiler/diagnostics"
	"github.com/KT-314/Compiler/token"
)

// Lexer holds scanning state over a single source string.
type Lexer struct {
	source string
	pos    int // current byte offset into source
}

// New creates a Lexer over source.
func New(source string) *Lexer {
	return &Lexer{source: source}
}

// Lex scans source in full, producing the head of a non-empty,
// singly-linked token list whose last element has Kind == token.EOF.
func Lex(source string) (*token.Token, error) {
	l := New(source)

	head := &token.Token{}
	cur := head

	for {
		l.skipWhitespace()
		if l.atEnd() {
			break
		}

		tok, err := l.next()
		if err != nil {
			return nil, err
		}

		cur.Next = tok
		cur = tok
	}

	cur.Next = &token.Token{Kind: token.EOF, Pos: l.pos}
	reclassifyKeywords(head.Next, source)

	return head.Next, nil
}

// next scans a single token starting at l.pos, which must not be
// whitespace and must not be at end of input.
func (l *Lexer) next() (*token.Token, error) {
	ch := l.source[l.pos]

	switch {
	case isDigit(ch):
		return l.readNumber(), nil

	case isAlpha(ch):
		return l.readIdentifier(), nil

	case l.startsWith("==") || l.startsWith("!=") || l.startsWith("<=") || l.startsWith(">="):
		return l.readPunct(2), nil

	case isPunct(ch):
		return l.readPunct(1), nil

	default:
		return nil, diagnostics.ReportAt(l.source, l.pos, "invalid token")
	}
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.source)
}

func (l *Lexer) startsWith(s string) bool {
	end := l.pos + len(s)
	return end <= len(l.source) && l.source[l.pos:end] == s
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && isWhitespace(l.source[l.pos]) {
		l.pos++
	}
}

// readNumber consumes the longest run of decimal digits starting at
// l.pos and returns a NUMBER token. Overflow of the literal wraps
// around per Go's defined unsigned-integer arithmetic, then is
// reinterpreted as a signed 64-bit two's-complement value.
func (l *Lexer) readNumber() *token.Token {
	start := l.pos

	var value uint64
	for !l.atEnd() && isDigit(l.source[l.pos]) {
		value = value*10 + uint64(l.source[l.pos]-'0')
		l.pos++
	}

	return &token.Token{
		Kind:  token.NUMBER,
		Pos:   start,
		Len:   l.pos - start,
		Value: int64(value),
	}
}

// readIdentifier consumes an identifier: an alphabetic-or-underscore
// lead character followed by alphanumeric-or-underscore characters.
func (l *Lexer) readIdentifier() *token.Token {
	start := l.pos
	l.pos++ // lead character already checked by the caller

	for !l.atEnd() && isAlnum(l.source[l.pos]) {
		l.pos++
	}

	return &token.Token{Kind: token.IDENT, Pos: start, Len: l.pos - start}
}

// readPunct consumes a punctuator of the given length (1 or 2 bytes).
func (l *Lexer) readPunct(length int) *token.Token {
	start := l.pos
	l.pos += length

	return &token.Token{Kind: token.RESERVED, Pos: start, Len: length}
}

func reclassifyKeywords(head *token.Token, source string) {
	for t := head; t != nil && t.Kind != token.EOF; t = t.Next {
		if t.Kind == token.IDENT && token.IsKeyword(t.Text(source)) {
			t.Kind = token.RESERVED
		}
	}
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\v' || ch == '\f' || ch == '\r'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isAlnum(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}

// isPunct mirrors the C standard library's ispunct(): a printable,
// non-alphanumeric, non-space ASCII character.
func isPunct(ch byte) bool {
	return (ch >= '!' && ch <= '/') ||
		(ch >= ':' && ch <= '@') ||
		(ch >= '[' && ch <= '`') ||
		(ch >= '{' && ch <= '~')
}
