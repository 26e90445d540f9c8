// Package report renders run results as text tables for the command-line
// tools.
package report

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"minilang/pkg/compiler"
	"minilang/pkg/symtab"
	"minilang/pkg/vm"
)

// Vars renders the variable table in first-assignment order.
func Vars(vars *symtab.Table) string {
	t := table.NewWriter()
	t.SetTitle("Variables")
	t.AppendHeader(table.Row{"Name", "Value"})
	for _, b := range vars.Bindings() {
		t.AppendRow(table.Row{b.Name, b.Value})
	}
	t.AppendFooter(table.Row{"Total", vars.Len()})
	return t.Render()
}

// Listing renders code with program counters.
func Listing(code []vm.Instruction) string {
	t := table.NewWriter()
	t.SetTitle("Listing")
	t.AppendHeader(table.Row{"PC", "Op", "Operand"})
	for pc, in := range code {
		var operand any
		switch in.Op.Operand() {
		case vm.OperandInt:
			operand = in.Value
		case vm.OperandName:
			operand = in.Name
		default:
			operand = ""
		}
		t.AppendRow(table.Row{pc, in.Op.String(), operand})
	}
	return t.Render()
}

// Tokens renders a token stream with source positions.
func Tokens(tokens []compiler.Token) string {
	t := table.NewWriter()
	t.SetTitle("Tokens")
	t.AppendHeader(table.Row{"#", "Type", "Lexeme", "Line", "Col"})
	for i, tok := range tokens {
		t.AppendRow(table.Row{i, tok.Type.String(), tok.Lexeme, tok.Line, tok.Col})
	}
	return t.Render()
}

// Result renders the outcome of a bytecode run.
func Result(runID string, value int64, hasValue bool) string {
	t := table.NewWriter()
	t.SetTitle("Result")
	top := "(empty stack)"
	if hasValue {
		top = fmt.Sprint(value)
	}
	t.AppendRow(table.Row{"Run", runID})
	t.AppendRow(table.Row{"Top of stack", top})
	return t.Render()
}

// StepTable is a vm.Observer that records every executed step.
type StepTable struct {
	t     table.Writer
	Steps int
}

func NewStepTable() *StepTable {
	t := table.NewWriter()
	t.SetTitle("Execution")
	t.AppendHeader(table.Row{"PC", "Instruction", "Stack"})
	return &StepTable{t: t}
}

func (s *StepTable) Step(pc int, in vm.Instruction, stack []int64) {
	s.Steps++
	parts := make([]string, len(stack))
	for i, v := range stack {
		parts[i] = fmt.Sprint(v)
	}
	s.t.AppendRow(table.Row{pc, in.String(), "[" + strings.Join(parts, " ") + "]"})
}

func (s *StepTable) Render() string {
	return s.t.Render()
}
