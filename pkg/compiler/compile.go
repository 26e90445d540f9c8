package compiler

import (
	"fmt"

	"minilang/pkg/vm"
)

// Program is everything the front end produced for one source string.
type Program struct {
	Tokens []Token
	AST    *Block
	Code   []vm.Instruction
}

// Front lexes and parses src.
func Front(src string) (*Program, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}
	block, err := Parse(tokens, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return &Program{Tokens: tokens, AST: block}, nil
}

// Compile runs the whole front end plus code generation.
func Compile(src string) (*Program, error) {
	prog, err := Front(src)
	if err != nil {
		return nil, err
	}
	code, err := Generate(prog.AST)
	if err != nil {
		return nil, fmt.Errorf("codegen: %w", err)
	}
	prog.Code = code
	return prog, nil
}
