package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: synthesised by the parser past the last token

	// Keywords
	IF   // "if"
	ELSE // "else"

	// Literals
	NUMBER     // decimal integer literal
	IDENTIFIER // variable name

	// Arithmetic operators
	PLUS     // +
	MINUS    // -
	MULTIPLY // *
	DIVIDE   // /

	EQUALS // =

	// Paired delimiters
	LPAREN // (
	RPAREN // )
	LBRACE // {
	RBRACE // }

	SEMICOLON  // ;
	COMPARISON // == != < <= > >=
)

// tokenNames is indexed by TokenType.
var tokenNames = [...]string{
	EOF:        "EOF",
	IF:         "IF",
	ELSE:       "ELSE",
	NUMBER:     "NUMBER",
	IDENTIFIER: "IDENTIFIER",
	PLUS:       "PLUS",
	MINUS:      "MINUS",
	MULTIPLY:   "MULTIPLY",
	DIVIDE:     "DIVIDE",
	EQUALS:     "EQUALS",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	LBRACE:     "LBRACE",
	RBRACE:     "RBRACE",
	SEMICOLON:  "SEMICOLON",
	COMPARISON: "COMPARISON",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit produced by Lex.
type Token struct {
	Type   TokenType
	Lexeme string // the exact source text that was matched
	Pos    int    // byte offset of the lexeme
	Line   int    // 1-based source line
	Col    int    // 1-based column, in runes
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-8q  line %d col %d", t.Type, t.Lexeme, t.Line, t.Col)
}
