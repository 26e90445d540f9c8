// Package fault defines the error taxonomy shared by every stage of the
// minilang pipeline. Each error type reports a Kind so callers can tell
// failure categories apart without inspecting message text.
package fault

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	KindNone Kind = iota
	KindLex
	KindSyntax
	KindUndefinedVariable
	KindArithmetic
)

var kindNames = [...]string{
	KindNone:              "none",
	KindLex:               "lex",
	KindSyntax:            "syntax",
	KindUndefinedVariable: "undefined-variable",
	KindArithmetic:        "arithmetic",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrStackUnderflow = errors.New("operand stack underflow")
)

// kinded is satisfied by every error type in this package.
type kinded interface {
	error
	Kind() Kind
}

// KindOf returns the Kind of the first classified error in err's chain,
// or KindNone if err is nil or unclassified.
func KindOf(err error) Kind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindNone
}

// LexError reports the first character the tokenizer could not consume.
type LexError struct {
	Char rune
	Pos  int // byte offset into the source
	Line int
	Col  int
}

func (e *LexError) Kind() Kind { return KindLex }

func (e *LexError) Error() string {
	return fmt.Sprintf("line %d, col %d: unexpected character %q", e.Line, e.Col, e.Char)
}

// SyntaxError reports a token that does not fit the grammar.
// Found is "EOF" when input ran out where a token was required.
type SyntaxError struct {
	Expected string
	Found    string
	Lexeme   string
	Line     int
	Col      int
	Snippet  string
}

func (e *SyntaxError) Kind() Kind { return KindSyntax }

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "line %d: expected %s, got %s", e.Line, e.Expected, e.Found)
	if e.Lexeme != "" {
		fmt.Fprintf(&b, " (%q)", e.Lexeme)
	}
	if e.Snippet != "" {
		fmt.Fprintf(&b, "\n  |> %s", e.Snippet)
	}
	return b.String()
}

// UndefinedVariableError reports a read of a name with no binding.
type UndefinedVariableError struct {
	Name        string
	Suggestions []string
}

func (e *UndefinedVariableError) Kind() Kind { return KindUndefinedVariable }

func (e *UndefinedVariableError) Error() string {
	msg := "undefined variable: " + e.Name
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// Undefined builds an UndefinedVariableError for name, ranking the bound
// names by fuzzy distance to offer at most three suggestions.
func Undefined(name string, bound []string) *UndefinedVariableError {
	ranks := fuzzy.RankFindFold(name, bound)
	// Also match the other way round so "ab" suggests "a".
	for i, cand := range bound {
		if cand != name && fuzzy.MatchFold(cand, name) {
			ranks = append(ranks, fuzzy.Rank{Source: cand, Target: cand, Distance: len(name) - len(cand), OriginalIndex: i})
		}
	}
	sort.Sort(ranks)

	seen := make(map[string]bool)
	var out []string
	for _, r := range ranks {
		if seen[r.Target] {
			continue
		}
		seen[r.Target] = true
		out = append(out, r.Target)
		if len(out) == 3 {
			break
		}
	}
	return &UndefinedVariableError{Name: name, Suggestions: out}
}

// ArithmeticFault reports division by zero or an operand stack underflow.
type ArithmeticFault struct {
	Op  string
	Err error
}

func (e *ArithmeticFault) Kind() Kind { return KindArithmetic }

func (e *ArithmeticFault) Error() string {
	if e.Op == "" {
		return "arithmetic fault: " + e.Err.Error()
	}
	return fmt.Sprintf("arithmetic fault in %s: %v", e.Op, e.Err)
}

func (e *ArithmeticFault) Unwrap() error { return e.Err }
