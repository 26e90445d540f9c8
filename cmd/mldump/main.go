package main

import (
	"fmt"
	"io"
	"os"

	"minilang/pkg/asm"
	"minilang/pkg/compiler"
	"minilang/pkg/report"
)

const testSource = `x = 10;
y = 20;
if (x < y) { z = y - x; } else { z = 0; }
`

func main() {
	src := testSource
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = string(data)
	}
	if err := dump(src, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// dump prints every stage of the front end for src.
func dump(src string, w io.Writer) error {
	fmt.Fprintf(w, "Source:\n%s\n", src)

	tokens, err := compiler.Lex(src)
	if err != nil {
		return fmt.Errorf("lex error: %w", err)
	}
	fmt.Fprintln(w, report.Tokens(tokens))
	fmt.Fprintln(w)

	block, err := compiler.Parse(tokens, src)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	fmt.Fprintln(w, "AST")
	for _, s := range block.Stmts {
		fmt.Fprintln(w, " ", s)
	}
	fmt.Fprintln(w)

	code, err := compiler.Generate(block)
	if err != nil {
		return fmt.Errorf("codegen error: %w", err)
	}
	fmt.Fprintln(w, "Generated Listing")
	fmt.Fprint(w, asm.Format(code))
	return nil
}
