// Package arith holds the integer semantics shared by the interpreter and
// the virtual machine, so both execution paths agree on every result.
package arith

import (
	"fmt"

	"minilang/pkg/fault"
)

// Op is a binary arithmetic operator.
type Op int

const (
	Add Op = iota
	Sub
	Mul
	Div
)

var opSymbols = [...]string{Add: "+", Sub: "-", Mul: "*", Div: "/"}

func (o Op) String() string {
	if int(o) >= 0 && int(o) < len(opSymbols) {
		return opSymbols[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// ParseOp maps a source operator symbol to its Op.
func ParseOp(sym string) (Op, bool) {
	switch sym {
	case "+":
		return Add, true
	case "-":
		return Sub, true
	case "*":
		return Mul, true
	case "/":
		return Div, true
	}
	return 0, false
}

// Apply computes a op b. Overflow wraps as two's complement.
func Apply(op Op, a, b int64) (int64, error) {
	switch op {
	case Add:
		return a + b, nil
	case Sub:
		return a - b, nil
	case Mul:
		return a * b, nil
	case Div:
		return FloorDiv(a, b)
	}
	return 0, fmt.Errorf("unknown arithmetic operator %v", op)
}

// FloorDiv divides rounding the quotient toward negative infinity.
func FloorDiv(a, b int64) (int64, error) {
	if b == 0 {
		return 0, &fault.ArithmeticFault{Op: "/", Err: fault.ErrDivisionByZero}
	}
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q, nil
}

// Compare evaluates a comparison operator (== != < <= > >=).
func Compare(sym string, a, b int64) (bool, error) {
	switch sym {
	case "==":
		return a == b, nil
	case "!=":
		return a != b, nil
	case "<":
		return a < b, nil
	case "<=":
		return a <= b, nil
	case ">":
		return a > b, nil
	case ">=":
		return a >= b, nil
	}
	return false, fmt.Errorf("unknown comparison operator %q", sym)
}

// Bool converts a condition to the integer encoding used at run time.
func Bool(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
