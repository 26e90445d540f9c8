// Package vm implements the minilang stack machine: a flat instruction
// sequence executed front to back against an operand stack and a variable
// table. There are no jumps; execution halts when the program counter
// runs off the end of the code.
package vm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"minilang/pkg/arith"
	"minilang/pkg/fault"
	"minilang/pkg/symtab"
)

// LevelTrace sits between Info and Warn and carries per-instruction records.
const LevelTrace slog.Level = slog.LevelInfo + 1

// Trace logs msg at LevelTrace on the default logger.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// Opcode identifies an instruction.
type Opcode uint8

const (
	OpPUSH Opcode = iota
	OpLOAD
	OpSTORE
	OpADD
	OpSUB
	OpMUL
	OpDIV
)

var opNames = [...]string{
	OpPUSH:  "PUSH",
	OpLOAD:  "LOAD",
	OpSTORE: "STORE",
	OpADD:   "ADD",
	OpSUB:   "SUB",
	OpMUL:   "MUL",
	OpDIV:   "DIV",
}

func (op Opcode) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Opcode(%d)", int(op))
}

// LookupOpcode maps a mnemonic to its Opcode.
func LookupOpcode(name string) (Opcode, bool) {
	for i, n := range opNames {
		if n == name {
			return Opcode(i), true
		}
	}
	return 0, false
}

// Operand describes what an opcode carries after its mnemonic.
type Operand int

const (
	OperandNone Operand = iota
	OperandInt
	OperandName
)

// Operand reports the operand kind op expects.
func (op Opcode) Operand() Operand {
	switch op {
	case OpPUSH:
		return OperandInt
	case OpLOAD, OpSTORE:
		return OperandName
	}
	return OperandNone
}

// arithOps maps the arithmetic opcodes onto the shared integer semantics.
var arithOps = map[Opcode]arith.Op{
	OpADD: arith.Add,
	OpSUB: arith.Sub,
	OpMUL: arith.Mul,
	OpDIV: arith.Div,
}

// ArithOpcode returns the opcode for a source operator symbol.
func ArithOpcode(sym string) (Opcode, bool) {
	op, ok := arith.ParseOp(sym)
	if !ok {
		return 0, false
	}
	for code, a := range arithOps {
		if a == op {
			return code, true
		}
	}
	return 0, false
}

// Instruction is one opcode plus at most one operand: Value for PUSH,
// Name for LOAD and STORE.
type Instruction struct {
	Op    Opcode
	Name  string
	Value int64
}

func Push(v int64) Instruction { return Instruction{Op: OpPUSH, Value: v} }

func Load(name string) Instruction { return Instruction{Op: OpLOAD, Name: name} }

func Store(name string) Instruction { return Instruction{Op: OpSTORE, Name: name} }

func Simple(op Opcode) Instruction { return Instruction{Op: op} }

// String renders the listing line for the instruction.
func (in Instruction) String() string {
	switch in.Op.Operand() {
	case OperandInt:
		return in.Op.String() + " " + strconv.FormatInt(in.Value, 10)
	case OperandName:
		return in.Op.String() + " " + in.Name
	}
	return in.Op.String()
}

// Observer is notified after every executed instruction.
type Observer interface {
	Step(pc int, in Instruction, stack []int64)
}

// Machine executes one program. It owns its operand stack; Vars is the
// caller's table and keeps every STORE after the run.
type Machine struct {
	Code  []Instruction
	PC    int
	Stack []int64
	Vars  *symtab.Table

	Halted   bool
	Observer Observer
}

// New creates a machine over code. A nil vars gets a fresh table.
func New(code []Instruction, vars *symtab.Table) *Machine {
	if vars == nil {
		vars = symtab.New()
	}
	return &Machine{Code: code, Vars: vars, Halted: len(code) == 0}
}

func (m *Machine) push(v int64) {
	m.Stack = append(m.Stack, v)
}

func (m *Machine) pop(in Instruction) (int64, error) {
	n := len(m.Stack)
	if n == 0 {
		return 0, &fault.ArithmeticFault{Op: in.String(), Err: fault.ErrStackUnderflow}
	}
	v := m.Stack[n-1]
	m.Stack = m.Stack[:n-1]
	return v, nil
}

// Step executes the instruction at PC. Any error is fatal: the machine
// halts and the faulting instruction is not retried.
func (m *Machine) Step() error {
	if m.Halted {
		return nil
	}
	pc := m.PC
	in := m.Code[pc]

	if err := m.exec(in); err != nil {
		m.Halted = true
		return fmt.Errorf("pc %d (%s): %w", pc, in, err)
	}

	m.PC++
	if m.PC >= len(m.Code) {
		m.Halted = true
	}

	Trace("vm step", slog.Int("pc", pc), slog.String("instr", in.String()), slog.Any("stack", m.Stack))
	if m.Observer != nil {
		m.Observer.Step(pc, in, slices.Clone(m.Stack))
	}
	return nil
}

func (m *Machine) exec(in Instruction) error {
	switch in.Op {
	case OpPUSH:
		m.push(in.Value)

	case OpLOAD:
		v, ok := m.Vars.Get(in.Name)
		if !ok {
			return fault.Undefined(in.Name, m.Vars.Names())
		}
		m.push(v)

	case OpSTORE:
		v, err := m.pop(in)
		if err != nil {
			return err
		}
		m.Vars.Set(in.Name, v)

	case OpADD, OpSUB, OpMUL, OpDIV:
		b, err := m.pop(in)
		if err != nil {
			return err
		}
		a, err := m.pop(in)
		if err != nil {
			return err
		}
		res, err := arith.Apply(arithOps[in.Op], a, b)
		if err != nil {
			return &fault.ArithmeticFault{Op: in.String(), Err: cause(err)}
		}
		m.push(res)

	default:
		return fmt.Errorf("unknown opcode %v", in.Op)
	}
	return nil
}

// cause unwraps the fault raised by arith so the VM can relabel it with
// the opcode.
func cause(err error) error {
	var af *fault.ArithmeticFault
	if errors.As(err, &af) {
		return af.Err
	}
	return err
}

// Run executes until the end of the code or the first fault.
func (m *Machine) Run() error {
	for !m.Halted {
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Result returns the top of the operand stack; ok is false when the stack
// ended empty.
func (m *Machine) Result() (int64, bool) {
	if len(m.Stack) == 0 {
		return 0, false
	}
	return m.Stack[len(m.Stack)-1], true
}

// Execute runs code against vars and returns the final top of stack.
func Execute(code []Instruction, vars *symtab.Table) (int64, bool, error) {
	m := New(code, vars)
	if err := m.Run(); err != nil {
		return 0, false, err
	}
	v, ok := m.Result()
	return v, ok, nil
}
