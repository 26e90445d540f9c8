// Package pipeline exposes the two ways to run a minilang program: the
// tree-walking interpreter and the compile-then-execute bytecode path.
// Each run owns its stack and, unless the caller passes one in, its
// variable table.
package pipeline

import (
	"log/slog"

	"github.com/oklog/ulid/v2"

	"minilang/pkg/compiler"
	"minilang/pkg/interp"
	"minilang/pkg/symtab"
	"minilang/pkg/vm"
)

// Result is the outcome of a bytecode run.
type Result struct {
	// Value is the top of the operand stack when HasValue is set.
	Value    int64
	HasValue bool

	Code  []vm.Instruction
	Vars  *symtab.Table
	RunID string
}

// NewRunID returns a fresh, time-ordered run identifier.
func NewRunID() string {
	return ulid.Make().String()
}

// Interpret lexes, parses and evaluates src against a fresh table.
func Interpret(src string) (*symtab.Table, error) {
	return InterpretWith(src, symtab.New())
}

// InterpretWith evaluates src against vars. On failure vars keeps the
// assignments made before the faulting statement.
func InterpretWith(src string, vars *symtab.Table) (*symtab.Table, error) {
	if vars == nil {
		vars = symtab.New()
	}
	log := slog.With(slog.String("run", NewRunID()), slog.String("mode", "interpret"))

	prog, err := compiler.Front(src)
	if err != nil {
		log.Debug("front end failed", slog.Any("err", err))
		return nil, err
	}
	in := interp.New(vars)
	if err := in.Run(prog.AST); err != nil {
		log.Debug("run failed", slog.Any("err", err), slog.Int("statements", in.Statements))
		return vars, err
	}
	log.Debug("run finished", slog.Int("statements", in.Statements), slog.Int("vars", vars.Len()))
	return vars, nil
}

// CompileAndRun compiles src to instructions and executes them on a fresh
// machine. Lex and syntax errors return no Result. A run-time fault
// returns the Result so far (code and partial variables) alongside the
// error.
func CompileAndRun(src string) (*Result, error) {
	return CompileAndRunWith(src, symtab.New())
}

// CompileAndRunWith is CompileAndRun over a caller-owned table.
func CompileAndRunWith(src string, vars *symtab.Table) (*Result, error) {
	prog, err := compiler.Compile(src)
	if err != nil {
		slog.Debug("compile failed", slog.Any("err", err))
		return nil, err
	}
	return RunListing(prog.Code, vars)
}

// RunListing executes already compiled or loaded instructions.
func RunListing(code []vm.Instruction, vars *symtab.Table) (*Result, error) {
	return RunListingWith(code, vars, nil)
}

// RunListingWith is RunListing with obs notified after every step.
func RunListingWith(code []vm.Instruction, vars *symtab.Table, obs vm.Observer) (*Result, error) {
	if vars == nil {
		vars = symtab.New()
	}
	res := &Result{Code: code, Vars: vars, RunID: NewRunID()}
	log := slog.With(slog.String("run", res.RunID), slog.String("mode", "compile"))

	m := vm.New(code, vars)
	m.Observer = obs
	if err := m.Run(); err != nil {
		log.Debug("run failed", slog.Any("err", err), slog.Int("pc", m.PC))
		return res, err
	}
	res.Value, res.HasValue = m.Result()
	log.Debug("run finished", slog.Int("instructions", len(code)), slog.Bool("has_value", res.HasValue))
	return res, nil
}
