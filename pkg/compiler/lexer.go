package compiler

import (
	"regexp"
	"unicode/utf8"

	"minilang/pkg/fault"
)

// rule pairs a token type with the pattern that recognises it.
// skip marks whitespace, which is consumed but never emitted.
type rule struct {
	tt   TokenType
	re   *regexp.Regexp
	skip bool
}

// rules are tried in order against the unconsumed input; the first match
// wins. Keywords precede IDENTIFIER so "if" is never an identifier, and
// COMPARISON precedes EQUALS so "==" is one comparison token.
var rules = []rule{
	{tt: IF, re: regexp.MustCompile(`^if\b`)},
	{tt: ELSE, re: regexp.MustCompile(`^else\b`)},
	{tt: NUMBER, re: regexp.MustCompile(`^\d+`)},
	{tt: IDENTIFIER, re: regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*`)},
	{tt: PLUS, re: regexp.MustCompile(`^\+`)},
	{tt: MINUS, re: regexp.MustCompile(`^-`)},
	{tt: MULTIPLY, re: regexp.MustCompile(`^\*`)},
	{tt: DIVIDE, re: regexp.MustCompile(`^/`)},
	{tt: COMPARISON, re: regexp.MustCompile(`^(==|!=|<=|>=|<|>)`)},
	{tt: EQUALS, re: regexp.MustCompile(`^=`)},
	{tt: LPAREN, re: regexp.MustCompile(`^\(`)},
	{tt: RPAREN, re: regexp.MustCompile(`^\)`)},
	{tt: LBRACE, re: regexp.MustCompile(`^\{`)},
	{tt: RBRACE, re: regexp.MustCompile(`^\}`)},
	{tt: SEMICOLON, re: regexp.MustCompile(`^;`)},
	{re: regexp.MustCompile(`^\s+`), skip: true},
}

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src  string
	pos  int // byte offset of the next unconsumed character
	line int
	col  int
}

func newLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// advance consumes n bytes, keeping line and column current.
func (l *Lexer) advance(n int) {
	for _, r := range l.src[l.pos : l.pos+n] {
		if r == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
	}
	l.pos += n
}

// nextToken returns the next emitted token, or ok=false at end of input.
func (l *Lexer) nextToken() (tok Token, ok bool, err error) {
	for l.pos < len(l.src) {
		rest := l.src[l.pos:]
		matched := false
		for _, r := range rules {
			loc := r.re.FindStringIndex(rest)
			if loc == nil || loc[1] == 0 {
				continue
			}
			matched = true
			if r.skip {
				l.advance(loc[1])
				break
			}
			tok = Token{Type: r.tt, Lexeme: rest[:loc[1]], Pos: l.pos, Line: l.line, Col: l.col}
			l.advance(loc[1])
			return tok, true, nil
		}
		if !matched {
			ch, _ := utf8.DecodeRuneInString(rest)
			return Token{}, false, &fault.LexError{Char: ch, Pos: l.pos, Line: l.line, Col: l.col}
		}
	}
	return Token{}, false, nil
}

// Lex tokenises src in a single pass. Whitespace is dropped; no EOF token is
// appended. On the first unrecognised character it returns a *fault.LexError
// and no tokens.
func Lex(src string) ([]Token, error) {
	l := newLexer(src)
	var tokens []Token
	for {
		tok, ok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}
