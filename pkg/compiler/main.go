// Package compiler provides the minilang lexer, parser, AST and bytecode
// generator.
//
// Pipeline: source → Lex → Parse → Generate → []vm.Instruction
package compiler
