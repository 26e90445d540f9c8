package interp

import (
	"errors"
	"reflect"
	"testing"

	"minilang/pkg/compiler"
	"minilang/pkg/fault"
	"minilang/pkg/symtab"
)

func parse(t *testing.T, src string) *compiler.Block {
	t.Helper()
	tokens, err := compiler.Lex(src)
	if err != nil {
		t.Fatalf("Lex failed: %v", err)
	}
	block, err := compiler.Parse(tokens, src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return block
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string]int64
	}{
		{"Empty", "", map[string]int64{}},
		{"Precedence", "x = 2 + 3 * 4;", map[string]int64{"x": 14}},
		{"Parentheses", "x = (2 + 3) * 4;", map[string]int64{"x": 20}},
		{"Floor division", "x = 7 / 2;", map[string]int64{"x": 3}},
		{"Floor division negative", "x = 0 - 7; y = x / 2;", map[string]int64{"x": -7, "y": -4}},
		{"Reassignment", "x = 1; x = x + 1; x = x * 10;", map[string]int64{"x": 20}},
		{"Branch taken", "x = 1; if (x == 1) { x = 10; } else { x = 20; }", map[string]int64{"x": 10}},
		{"Branch not taken", "x = 2; if (x == 1) { x = 10; } else { x = 20; }", map[string]int64{"x": 20}},
		{"If without else", "x = 5; if (x < 3) { y = 1; }", map[string]int64{"x": 5}},
		{"Truthy expression", "x = 3; if (x - 3) { y = 1; } else { y = 2; }", map[string]int64{"x": 3, "y": 2}},
		{"Nested branches", "a = 4; if (a >= 4) { if (a != 4) { b = 1; } else { b = 2; } }", map[string]int64{"a": 4, "b": 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := symtab.New()
			if err := New(vars).Run(parse(t, tt.input)); err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if got := vars.Map(); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("vars = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestEval(t *testing.T) {
	in := New(nil)
	in.Vars.Set("n", 9)

	tests := []struct {
		src  string
		want int64
	}{
		{"r = n / 2;", 4},
		{"r = n - 10;", -1},
		{"if (n > 1) { r = 7; } else { r = 8; }", 7},
		{"if (n < 1) { r = 7; }", 0},
	}
	for _, tt := range tests {
		got, err := in.Eval(parse(t, tt.src))
		if err != nil {
			t.Fatalf("Eval(%q) failed: %v", tt.src, err)
		}
		if got != tt.want {
			t.Errorf("Eval(%q) = %d, want %d", tt.src, got, tt.want)
		}
	}

	cmp := &compiler.Comparison{Op: "<=", Left: &compiler.Identifier{Name: "n"}, Right: &compiler.Number{Text: "9", Value: 9}}
	if v, err := in.Eval(cmp); err != nil || v != 1 {
		t.Errorf("comparison = %d, %v; want 1", v, err)
	}
}

func TestUndefinedVariable(t *testing.T) {
	vars := symtab.New()
	err := New(vars).Run(parse(t, "x = y + 1;"))

	var undef *fault.UndefinedVariableError
	if !errors.As(err, &undef) {
		t.Fatalf("expected UndefinedVariableError, got %v", err)
	}
	if undef.Name != "y" {
		t.Errorf("Name = %q, want y", undef.Name)
	}
	if fault.KindOf(err) != fault.KindUndefinedVariable {
		t.Errorf("KindOf = %v", fault.KindOf(err))
	}
	if vars.Len() != 0 {
		t.Errorf("failed assignment must not bind: %v", vars)
	}
}

func TestUndefinedVariableSuggestions(t *testing.T) {
	err := New(nil).Run(parse(t, "total = 1; x = totl;"))

	var undef *fault.UndefinedVariableError
	if !errors.As(err, &undef) {
		t.Fatalf("expected UndefinedVariableError, got %v", err)
	}
	if len(undef.Suggestions) == 0 || undef.Suggestions[0] != "total" {
		t.Errorf("Suggestions = %v, want total first", undef.Suggestions)
	}
}

func TestDivisionByZeroKeepsEarlierMutations(t *testing.T) {
	vars := symtab.New()
	in := New(vars)
	err := in.Run(parse(t, "a = 1; b = a / 0; c = 3;"))

	if !errors.Is(err, fault.ErrDivisionByZero) {
		t.Fatalf("expected division by zero, got %v", err)
	}
	if fault.KindOf(err) != fault.KindArithmetic {
		t.Errorf("KindOf = %v", fault.KindOf(err))
	}
	if got := vars.Map(); !reflect.DeepEqual(got, map[string]int64{"a": 1}) {
		t.Errorf("vars = %v, want only a", got)
	}
	if in.Statements != 2 {
		t.Errorf("Statements = %d, want 2", in.Statements)
	}
}

func TestRunWithExistingTable(t *testing.T) {
	vars := symtab.New()
	vars.Set("base", 40)
	if err := New(vars).Run(parse(t, "answer = base + 2;")); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := vars.Names(); !reflect.DeepEqual(got, []string{"base", "answer"}) {
		t.Errorf("Names = %v", got)
	}
}
