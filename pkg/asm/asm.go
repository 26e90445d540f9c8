// Package asm converts between in-memory instructions and the text listing:
// one instruction per line, "OPCODE" or "OPCODE OPERAND", newline
// terminated, no header.
package asm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"minilang/pkg/vm"
)

// DefaultPath is where listings go when no path is given.
const DefaultPath = "output.bytecode"

// Format renders code as a listing.
func Format(code []vm.Instruction) string {
	var b strings.Builder
	for _, in := range code {
		b.WriteString(in.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Parse reads a listing back into instructions. Blank lines and text after
// ';' are ignored.
func Parse(text string) ([]vm.Instruction, error) {
	var code []vm.Instruction
	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		fields := strings.Fields(stripComments(raw))
		if len(fields) == 0 {
			continue
		}
		in, err := parseLine(fields, lineNo)
		if err != nil {
			return nil, err
		}
		code = append(code, in)
	}
	return code, nil
}

func parseLine(fields []string, lineNo int) (vm.Instruction, error) {
	mnemonic := strings.ToUpper(fields[0])
	op, ok := vm.LookupOpcode(mnemonic)
	if !ok {
		return vm.Instruction{}, fmt.Errorf("unknown instruction on line %d: %s", lineNo, fields[0])
	}
	operands := fields[1:]

	switch op.Operand() {
	case vm.OperandInt:
		if len(operands) != 1 {
			return vm.Instruction{}, fmt.Errorf("%s expects 1 operand on line %d", mnemonic, lineNo)
		}
		v, err := strconv.ParseInt(operands[0], 10, 64)
		if err != nil {
			return vm.Instruction{}, fmt.Errorf("invalid integer '%s' on line %d", operands[0], lineNo)
		}
		return vm.Push(v), nil

	case vm.OperandName:
		if len(operands) != 1 {
			return vm.Instruction{}, fmt.Errorf("%s expects 1 operand on line %d", mnemonic, lineNo)
		}
		if !isIdentifier(operands[0]) {
			return vm.Instruction{}, fmt.Errorf("invalid variable name '%s' on line %d", operands[0], lineNo)
		}
		return vm.Instruction{Op: op, Name: operands[0]}, nil
	}

	if len(operands) != 0 {
		return vm.Instruction{}, fmt.Errorf("%s expects 0 operands on line %d", mnemonic, lineNo)
	}
	return vm.Simple(op), nil
}

func stripComments(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		return line[:i]
	}
	return line
}

// isIdentifier matches the source language's identifier rule.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

// Write streams the listing of code to w.
func Write(w io.Writer, code []vm.Instruction) error {
	bw := bufio.NewWriter(w)
	for _, in := range code {
		if _, err := fmt.Fprintln(bw, in.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes the listing to path, creating or truncating it. The
// file is closed on every path and a failed close is reported.
func WriteFile(path string, code []vm.Instruction) (err error) {
	if path == "" {
		path = DefaultPath
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create listing: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close listing: %w", cerr))
		}
	}()

	if err := Write(f, code); err != nil {
		return fmt.Errorf("write listing %s: %w", path, err)
	}
	return nil
}

// ReadFile loads and parses a listing written by WriteFile.
func ReadFile(path string) ([]vm.Instruction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read listing: %w", err)
	}
	code, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return code, nil
}
