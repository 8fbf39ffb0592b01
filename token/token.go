// Package token contains the tokens that the lexer produces when
// scanning an input program: their kind, their location within the
// source text, and (for numeric literals) their parsed value.
package token

// Kind is the kind of a token.
type Kind int

// The kinds of token the lexer can produce.
const (
	// RESERVED covers both punctuation ("+", "==", "{", ...) and the
	// keywords return/if/else/for, which start life as IDENT and are
	// reclassified to RESERVED in a post-pass once lexing completes.
	RESERVED Kind = iota
	IDENT
	NUMBER
	EOF
)

// keywords holds the reserved words that the post-lexing pass
// reclassifies from IDENT to RESERVED.
var keywords = map[string]bool{
	"return": true,
	"if":     true,
	"else":   true,
	"for":    true,
}

// IsKeyword reports whether lexeme is one of the reserved words.
func IsKeyword(lexeme string) bool {
	return keywords[lexeme]
}

// Token is a single lexeme: its kind, its location in the source
// buffer (as a byte offset and length, the Go analogue of the
// original pointer+length pair), its parsed value when Kind is
// NUMBER, and a link to the next token in the stream.
type Token struct {
	Kind  Kind
	Pos   int   // byte offset of the lexeme within the source string
	Len   int   // length in bytes of the lexeme
	Value int64 // parsed value; meaningful only when Kind == NUMBER
	Next  *Token
}

// Text returns the lexeme this token was scanned from, given the
// original source string it came from.
func (t *Token) Text(source string) string {
	return source[t.Pos : t.Pos+t.Len]
}

// Is reports whether the token's lexeme equals sign - the Go
// equivalent of the original `equal(token, sign)` helper.
func (t *Token) Is(source, sign string) bool {
	return t.Len == len(sign) && t.Text(source) == sign
}
