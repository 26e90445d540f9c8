// Package interp evaluates a minilang AST directly against a variable table.
package interp

import (
	"fmt"
	"log/slog"

	"minilang/pkg/arith"
	"minilang/pkg/compiler"
	"minilang/pkg/fault"
	"minilang/pkg/symtab"
)

// Interpreter is a tree-walking evaluator. Vars is owned by the caller and
// keeps every assignment made before a failure.
type Interpreter struct {
	Vars *symtab.Table

	// Statements counts executed assignment and if statements.
	Statements int
}

// New returns an interpreter over vars. A nil vars gets a fresh table.
func New(vars *symtab.Table) *Interpreter {
	if vars == nil {
		vars = symtab.New()
	}
	return &Interpreter{Vars: vars}
}

// Run evaluates every statement of block in order.
func (in *Interpreter) Run(block *compiler.Block) error {
	_, err := in.Eval(block)
	return err
}

// Eval evaluates n and returns its value. Blocks yield the value of their
// last statement, comparisons yield 1 or 0 and an if without a taken
// branch yields 0.
func (in *Interpreter) Eval(n compiler.Node) (int64, error) {
	return compiler.Walk[int64](in, n)
}

func (in *Interpreter) VisitNumber(n *compiler.Number) (int64, error) {
	return n.Value, nil
}

func (in *Interpreter) VisitIdentifier(n *compiler.Identifier) (int64, error) {
	v, ok := in.Vars.Get(n.Name)
	if !ok {
		return 0, fault.Undefined(n.Name, in.Vars.Names())
	}
	return v, nil
}

func (in *Interpreter) VisitBinaryOp(n *compiler.BinaryOp) (int64, error) {
	op, ok := arith.ParseOp(n.Op)
	if !ok {
		return 0, fmt.Errorf("unknown operator %q", n.Op)
	}
	a, err := in.Eval(n.Left)
	if err != nil {
		return 0, err
	}
	b, err := in.Eval(n.Right)
	if err != nil {
		return 0, err
	}
	return arith.Apply(op, a, b)
}

func (in *Interpreter) VisitComparison(n *compiler.Comparison) (int64, error) {
	a, err := in.Eval(n.Left)
	if err != nil {
		return 0, err
	}
	b, err := in.Eval(n.Right)
	if err != nil {
		return 0, err
	}
	ok, err := arith.Compare(n.Op, a, b)
	if err != nil {
		return 0, err
	}
	return arith.Bool(ok), nil
}

func (in *Interpreter) VisitIfElse(n *compiler.IfElse) (int64, error) {
	in.Statements++
	cond, err := in.Eval(n.Cond)
	if err != nil {
		return 0, err
	}
	switch {
	case cond != 0:
		return in.Eval(n.Then)
	case n.Else != nil:
		return in.Eval(n.Else)
	}
	return 0, nil
}

func (in *Interpreter) VisitAssignment(n *compiler.Assignment) (int64, error) {
	in.Statements++
	v, err := in.Eval(n.Value)
	if err != nil {
		return 0, err
	}
	in.Vars.Set(n.Name, v)
	slog.Debug("interp assign", slog.String("name", n.Name), slog.Int64("value", v))
	return v, nil
}

func (in *Interpreter) VisitBlock(n *compiler.Block) (int64, error) {
	var last int64
	for _, stmt := range n.Stmts {
		v, err := in.Eval(stmt)
		if err != nil {
			return 0, err
		}
		last = v
	}
	return last, nil
}
