package compiler

import (
	"errors"
	"reflect"
	"testing"

	"minilang/pkg/fault"
)

func parseSource(t *testing.T, src string) (*Block, error) {
	t.Helper()
	tokens, err := Lex(src)
	if err != nil {
		t.Fatalf("Lex failed: %v", err)
	}
	return Parse(tokens, src)
}

// TestParse verifies that Parse produces the correct AST for valid inputs.
func TestParse(t *testing.T) {
	num := func(n int64, text string) *Number { return &Number{Text: text, Value: n} }
	id := func(name string) *Identifier { return &Identifier{Name: name} }

	tests := []struct {
		name     string
		input    string
		expected *Block
	}{
		{
			name:     "Empty Program",
			input:    "",
			expected: &Block{},
		},
		{
			name:  "Precedence",
			input: "x = 2 + 3 * 4;",
			expected: &Block{Stmts: []Node{
				&Assignment{Name: "x", Value: &BinaryOp{
					Op:   "+",
					Left: num(2, "2"),
					Right: &BinaryOp{
						Op:    "*",
						Left:  num(3, "3"),
						Right: num(4, "4"),
					},
				}},
			}},
		},
		{
			name:  "Left Associative",
			input: "x = a - b - c;",
			expected: &Block{Stmts: []Node{
				&Assignment{Name: "x", Value: &BinaryOp{
					Op:    "-",
					Left:  &BinaryOp{Op: "-", Left: id("a"), Right: id("b")},
					Right: id("c"),
				}},
			}},
		},
		{
			name:  "Parentheses",
			input: "x = (2 + 3) * 4;",
			expected: &Block{Stmts: []Node{
				&Assignment{Name: "x", Value: &BinaryOp{
					Op:    "*",
					Left:  &BinaryOp{Op: "+", Left: num(2, "2"), Right: num(3, "3")},
					Right: num(4, "4"),
				}},
			}},
		},
		{
			name:  "If Without Else",
			input: "if (x < 1) { y = 2; }",
			expected: &Block{Stmts: []Node{
				&IfElse{
					Cond: &Comparison{Op: "<", Left: id("x"), Right: num(1, "1")},
					Then: &Block{Stmts: []Node{&Assignment{Name: "y", Value: num(2, "2")}}},
				},
			}},
		},
		{
			name:  "If-Else",
			input: "x = 1; if (x == 1) { x = 10; } else { x = 20; }",
			expected: &Block{Stmts: []Node{
				&Assignment{Name: "x", Value: num(1, "1")},
				&IfElse{
					Cond: &Comparison{Op: "==", Left: id("x"), Right: num(1, "1")},
					Then: &Block{Stmts: []Node{&Assignment{Name: "x", Value: num(10, "10")}}},
					Else: &Block{Stmts: []Node{&Assignment{Name: "x", Value: num(20, "20")}}},
				},
			}},
		},
		{
			name:  "Bare Expression Condition",
			input: "if (x) { }",
			expected: &Block{Stmts: []Node{
				&IfElse{Cond: id("x"), Then: &Block{}},
			}},
		},
		{
			name:  "Nested If",
			input: "if (a) { if (b) { c = 1; } }",
			expected: &Block{Stmts: []Node{
				&IfElse{Cond: id("a"), Then: &Block{Stmts: []Node{
					&IfElse{Cond: id("b"), Then: &Block{Stmts: []Node{
						&Assignment{Name: "c", Value: num(1, "1")},
					}}},
				}}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSource(t, tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Parse() =\n%s\nwant\n%s", got, tt.expected)
			}
		})
	}
}

// TestParseErrors checks the expected/found pair reported for malformed input.
func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		found    string
	}{
		{"Missing Expression", "x = ;", "expression", "SEMICOLON"},
		{"Missing Semicolon", "x = 1", "SEMICOLON", "EOF"},
		{"Missing Equals", "x 1;", "EQUALS", "NUMBER"},
		{"Statement Starts With Number", "1 = x;", "statement", "NUMBER"},
		{"Chained Comparison", "if (a < b < c) { }", "RPAREN", "COMPARISON"},
		{"Comparison In Assignment", "x = a == b;", "SEMICOLON", "COMPARISON"},
		{"Unclosed Block", "if (a) { x = 1;", "RBRACE", "EOF"},
		{"Missing Brace", "if (a) x = 1;", "LBRACE", "IDENTIFIER"},
		{"Else Without Brace", "if (a) { } else x = 1;", "LBRACE", "IDENTIFIER"},
		{"Stray Close Brace", "x = 1; }", "EOF", "RBRACE"},
		{"Unclosed Paren", "x = (1 + 2;", "RPAREN", "SEMICOLON"},
		{"Dangling Operator", "x = 1 +;", "expression", "SEMICOLON"},
		{"Leading Minus", "x = -7 / 2;", "expression", "MINUS"},
		{"Literal Too Large", "x = 99999999999999999999;", "integer literal within 64-bit range", "NUMBER"},
		{"Else Alone", "else { }", "statement", "ELSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSource(t, tt.input)
			var synErr *fault.SyntaxError
			if !errors.As(err, &synErr) {
				t.Fatalf("expected *fault.SyntaxError, got %v", err)
			}
			if synErr.Expected != tt.expected || synErr.Found != tt.found {
				t.Errorf("got expected=%q found=%q, want expected=%q found=%q",
					synErr.Expected, synErr.Found, tt.expected, tt.found)
			}
		})
	}
}

func TestParseErrorLocation(t *testing.T) {
	src := "a = 1;\nb = ;"
	_, err := parseSource(t, src)
	var synErr *fault.SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("expected *fault.SyntaxError, got %v", err)
	}
	if synErr.Line != 2 || synErr.Col != 5 || synErr.Snippet != "b = ;" || synErr.Lexeme != ";" {
		t.Errorf("unexpected location %+v", synErr)
	}

	_, err = parseSource(t, "x = 1")
	if !errors.As(err, &synErr) {
		t.Fatalf("expected *fault.SyntaxError, got %v", err)
	}
	if synErr.Line != 1 || synErr.Col != 6 {
		t.Errorf("EOF reported at %d:%d, want 1:6", synErr.Line, synErr.Col)
	}
}

func TestASTString(t *testing.T) {
	block, err := parseSource(t, "x = (1 + y) * 2; if (x > 3) { z = x; } else { z = 0; }")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := "(block (= x (* (+ 1 y) 2)) (if (> x 3) (block (= z x)) (block (= z 0))))"
	if got := block.String(); got != want {
		t.Errorf("String() = %s\nwant %s", got, want)
	}
	kinds := []string{block.Kind(), block.Stmts[0].Kind(), block.Stmts[1].Kind()}
	if !reflect.DeepEqual(kinds, []string{"block", "assignment", "if_else"}) {
		t.Errorf("kinds = %v", kinds)
	}
}
