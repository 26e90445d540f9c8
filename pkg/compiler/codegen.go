package compiler

import (
	"fmt"
	"log/slog"

	"minilang/pkg/vm"
)

// CodeGen walks an AST and emits stack machine instructions in post-order.
//
// The instruction set has no jumps, so if/else statements and comparisons
// produce no code at all; they are skipped, not rejected. Skipped counts
// how many were dropped.
type CodeGen struct {
	code    []vm.Instruction
	Skipped int
}

func newCodeGen() *CodeGen {
	return &CodeGen{}
}

type none struct{}

func (cg *CodeGen) emit(in vm.Instruction) {
	cg.code = append(cg.code, in)
}

func (cg *CodeGen) VisitNumber(n *Number) (none, error) {
	cg.emit(vm.Push(n.Value))
	return none{}, nil
}

func (cg *CodeGen) VisitIdentifier(n *Identifier) (none, error) {
	cg.emit(vm.Load(n.Name))
	return none{}, nil
}

func (cg *CodeGen) VisitBinaryOp(n *BinaryOp) (none, error) {
	op, ok := vm.ArithOpcode(n.Op)
	if !ok {
		return none{}, fmt.Errorf("codegen: unknown operator %q", n.Op)
	}
	if _, err := Walk[none](cg, n.Left); err != nil {
		return none{}, err
	}
	if _, err := Walk[none](cg, n.Right); err != nil {
		return none{}, err
	}
	cg.emit(vm.Simple(op))
	return none{}, nil
}

func (cg *CodeGen) VisitComparison(n *Comparison) (none, error) {
	cg.skip(n)
	return none{}, nil
}

func (cg *CodeGen) VisitIfElse(n *IfElse) (none, error) {
	cg.skip(n)
	return none{}, nil
}

func (cg *CodeGen) skip(n Node) {
	cg.Skipped++
	slog.Debug("codegen: no bytecode for node", slog.String("kind", n.Kind()), slog.String("node", n.String()))
}

func (cg *CodeGen) VisitAssignment(n *Assignment) (none, error) {
	if _, err := Walk[none](cg, n.Value); err != nil {
		return none{}, err
	}
	cg.emit(vm.Store(n.Name))
	return none{}, nil
}

func (cg *CodeGen) VisitBlock(n *Block) (none, error) {
	for _, stmt := range n.Stmts {
		if _, err := Walk[none](cg, stmt); err != nil {
			return none{}, err
		}
	}
	return none{}, nil
}

// Generate compiles an AST into a flat instruction sequence.
func Generate(root Node) ([]vm.Instruction, error) {
	cg := newCodeGen()
	if _, err := Walk[none](cg, root); err != nil {
		return nil, err
	}
	return cg.code, nil
}
