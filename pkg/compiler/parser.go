package compiler

import (
	"strconv"
	"strings"

	"minilang/pkg/fault"
)

// Parser consumes the flat token slice produced by Lex and builds an AST.
//
// Grammar (highest precedence first):
//
//	factor     = NUMBER | IDENTIFIER | "(" expression ")"
//	term       = factor (("*" | "/") factor)*
//	expression = term (("+" | "-") term)*
//	comparison = expression [COMPARISON expression]
//	statement  = IDENTIFIER "=" expression ";"
//	           | "if" "(" comparison ")" "{" block "}" ["else" "{" block "}"]
//	block      = statement*            (until "}" or end of input)
//	program    = block EOF
//
// One token of lookahead, no backtracking; the first mismatch aborts.
type Parser struct {
	tokens      []Token
	pos         int
	sourceLines []string
}

func NewParser(tokens []Token, rawSource string) *Parser {
	return &Parser{tokens: tokens, sourceLines: strings.Split(rawSource, "\n")}
}

// syntaxError builds a *fault.SyntaxError at tok, quoting its source line.
func (p *Parser) syntaxError(tok Token, expected string) error {
	snippet := ""
	if idx := tok.Line - 1; idx >= 0 && idx < len(p.sourceLines) {
		snippet = strings.TrimSpace(p.sourceLines[idx])
	}
	return &fault.SyntaxError{
		Expected: expected,
		Found:    tok.Type.String(),
		Lexeme:   tok.Lexeme,
		Line:     tok.Line,
		Col:      tok.Col,
		Snippet:  snippet,
	}
}

// peek returns the current token without consuming it. Past the end it
// returns an EOF token positioned just after the last real token.
func (p *Parser) peek() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	eof := Token{Type: EOF, Line: 1, Col: 1}
	if n := len(p.tokens); n > 0 {
		last := p.tokens[n-1]
		eof.Line = last.Line
		eof.Col = last.Col + len([]rune(last.Lexeme))
		eof.Pos = last.Pos + len(last.Lexeme)
	}
	return eof
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches tt, otherwise returns an error.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.peek()
	if tok.Type != tt {
		return tok, p.syntaxError(tok, tt.String())
	}
	return p.advance(), nil
}

// parseFactor handles literals, variables and parenthesised expressions.
func (p *Parser) parseFactor() (Node, error) {
	tok := p.peek()
	switch tok.Type {
	case NUMBER:
		p.advance()
		val, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, p.syntaxError(tok, "integer literal within 64-bit range")
		}
		return &Number{Text: tok.Lexeme, Value: val}, nil

	case IDENTIFIER:
		p.advance()
		return &Identifier{Name: tok.Lexeme}, nil

	case LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	}
	return nil, p.syntaxError(tok, "expression")
}

// parseTerm handles * and /
func (p *Parser) parseTerm() (Node, error) {
	node, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for tt := p.peek().Type; tt == MULTIPLY || tt == DIVIDE; tt = p.peek().Type {
		op := p.advance().Lexeme
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		node = &BinaryOp{Op: op, Left: node, Right: right}
	}
	return node, nil
}

// parseExpression handles + and -
func (p *Parser) parseExpression() (Node, error) {
	node, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for tt := p.peek().Type; tt == PLUS || tt == MINUS; tt = p.peek().Type {
		op := p.advance().Lexeme
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		node = &BinaryOp{Op: op, Left: node, Right: right}
	}
	return node, nil
}

// parseComparison allows at most one comparison operator.
func (p *Parser) parseComparison() (Node, error) {
	left, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.peek().Type != COMPARISON {
		return left, nil
	}
	op := p.advance().Lexeme
	right, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &Comparison{Op: op, Left: left, Right: right}, nil
}

func (p *Parser) parseStatement() (Node, error) {
	switch tok := p.peek(); tok.Type {
	case IF:
		return p.parseIf()
	case IDENTIFIER:
		return p.parseAssignment()
	default:
		return nil, p.syntaxError(tok, "statement")
	}
}

func (p *Parser) parseAssignment() (Node, error) {
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(EQUALS); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return &Assignment{Name: name.Lexeme, Value: value}, nil
}

func (p *Parser) parseIf() (Node, error) {
	if _, err := p.expect(IF); err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	then, err := p.parseBraced()
	if err != nil {
		return nil, err
	}

	stmt := &IfElse{Cond: cond, Then: then}
	if p.peek().Type == ELSE {
		p.advance()
		if stmt.Else, err = p.parseBraced(); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

// parseBraced parses "{" block "}".
func (p *Parser) parseBraced() (*Block, error) {
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}
	return block, nil
}

// parseBlock collects statements until "}" or end of input.
func (p *Parser) parseBlock() (*Block, error) {
	block := &Block{}
	for tt := p.peek().Type; tt != RBRACE && tt != EOF; tt = p.peek().Type {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	return block, nil
}

// Parse builds the program block from tokens. rawSource is only used to
// quote the offending line in a *fault.SyntaxError.
func Parse(tokens []Token, rawSource string) (*Block, error) {
	p := NewParser(tokens, rawSource)
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(EOF); err != nil {
		return nil, err
	}
	return block, nil
}
