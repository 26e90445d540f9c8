package compiler

import (
	"fmt"
	"strings"
)

// Node is implemented by every AST node. The set of nodes is closed: the
// unexported marker keeps other packages from adding kinds, and Walk
// dispatches over exactly these kinds.
type Node interface {
	node()
	Kind() string
	String() string
}

// Number is an integer literal.
//
//	x = 42;
//	    ^^  Number{Text: "42", Value: 42}
type Number struct {
	Text  string
	Value int64
}

// Identifier is a read of a named variable.
type Identifier struct {
	Name string
}

// BinaryOp is Left Op Right for one of + - * /.
type BinaryOp struct {
	Op    string
	Left  Node
	Right Node
}

// Comparison is Left Op Right for one of == != < <= > >=.
// It only appears as an if condition.
type Comparison struct {
	Op    string
	Left  Node
	Right Node
}

// IfElse is `if (Cond) { Then } else { Else }`. Else is nil when absent.
type IfElse struct {
	Cond Node
	Then *Block
	Else *Block
}

// Assignment binds Name to the value of Value.
type Assignment struct {
	Name  string
	Value Node
}

// Block is an ordered statement sequence; the program root is a Block.
type Block struct {
	Stmts []Node
}

func (*Number) node()     {}
func (*Identifier) node() {}
func (*BinaryOp) node()   {}
func (*Comparison) node() {}
func (*IfElse) node()     {}
func (*Assignment) node() {}
func (*Block) node()      {}

func (*Number) Kind() string     { return "number" }
func (*Identifier) Kind() string { return "identifier" }
func (*BinaryOp) Kind() string   { return "binary_op" }
func (*Comparison) Kind() string { return "comparison" }
func (*IfElse) Kind() string     { return "if_else" }
func (*Assignment) Kind() string { return "assignment" }
func (*Block) Kind() string      { return "block" }

func (n *Number) String() string     { return n.Text }
func (n *Identifier) String() string { return n.Name }
func (b *BinaryOp) String() string   { return fmt.Sprintf("(%s %s %s)", b.Op, b.Left, b.Right) }
func (c *Comparison) String() string { return fmt.Sprintf("(%s %s %s)", c.Op, c.Left, c.Right) }

func (i *IfElse) String() string {
	if i.Else == nil {
		return fmt.Sprintf("(if %s %s)", i.Cond, i.Then)
	}
	return fmt.Sprintf("(if %s %s %s)", i.Cond, i.Then, i.Else)
}

func (a *Assignment) String() string { return fmt.Sprintf("(= %s %s)", a.Name, a.Value) }

func (b *Block) String() string {
	parts := make([]string, 0, len(b.Stmts)+1)
	parts = append(parts, "block")
	for _, s := range b.Stmts {
		parts = append(parts, s.String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Visitor has one method per node kind. Adding a kind to the AST adds a
// method here, so every consumer stops compiling until it handles it.
type Visitor[T any] interface {
	VisitNumber(*Number) (T, error)
	VisitIdentifier(*Identifier) (T, error)
	VisitBinaryOp(*BinaryOp) (T, error)
	VisitComparison(*Comparison) (T, error)
	VisitIfElse(*IfElse) (T, error)
	VisitAssignment(*Assignment) (T, error)
	VisitBlock(*Block) (T, error)
}

// Walk dispatches n to the matching Visitor method.
func Walk[T any](v Visitor[T], n Node) (T, error) {
	switch n := n.(type) {
	case *Number:
		return v.VisitNumber(n)
	case *Identifier:
		return v.VisitIdentifier(n)
	case *BinaryOp:
		return v.VisitBinaryOp(n)
	case *Comparison:
		return v.VisitComparison(n)
	case *IfElse:
		return v.VisitIfElse(n)
	case *Assignment:
		return v.VisitAssignment(n)
	case *Block:
		return v.VisitBlock(n)
	}
	var zero T
	return zero, fmt.Errorf("unknown AST node %T", n)
}
