package main

import (
	"fmt"
	"strings"

	"minilang/pkg/asm"
	"minilang/pkg/fault"
	"minilang/pkg/pipeline"
	"minilang/pkg/symtab"
)

// editor holds the source pane text and the output pane lines. It knows
// nothing about drawing.
type editor struct {
	src         []rune
	output      []string
	listingPath string
}

func newEditor(src, listingPath string) *editor {
	if listingPath == "" {
		listingPath = asm.DefaultPath
	}
	return &editor{
		src:         []rune(src),
		listingPath: listingPath,
		output:      []string{"F5: run interpreter   F6: run compiler"},
	}
}

func (e *editor) source() string { return string(e.src) }

func (e *editor) insert(r rune) {
	if r == '\r' {
		return
	}
	e.src = append(e.src, r)
}

func (e *editor) newline() { e.insert('\n') }

func (e *editor) backspace() {
	if len(e.src) > 0 {
		e.src = e.src[:len(e.src)-1]
	}
}

func (e *editor) setOutput(lines ...string) {
	e.output = e.output[:0]
	for _, l := range lines {
		e.output = append(e.output, strings.Split(l, "\n")...)
	}
}

func errorLines(err error) []string {
	return []string{fmt.Sprintf("%s error:", fault.KindOf(err)), err.Error()}
}

func varLines(vars *symtab.Table) []string {
	lines := []string{"Variables:"}
	for _, b := range vars.Bindings() {
		lines = append(lines, fmt.Sprintf("  %s = %d", b.Name, b.Value))
	}
	return lines
}

func (e *editor) runInterpreter() {
	vars, err := pipeline.Interpret(e.source())
	if err != nil {
		lines := errorLines(err)
		if vars != nil && vars.Len() > 0 {
			lines = append(lines, varLines(vars)...)
		}
		e.setOutput(lines...)
		return
	}
	e.setOutput(append([]string{"Interpreter: ok"}, varLines(vars)...)...)
}

func (e *editor) runCompiler() {
	res, err := pipeline.CompileAndRun(e.source())
	if res == nil {
		e.setOutput(errorLines(err)...)
		return
	}

	lines := []string{fmt.Sprintf("Compiler: %d instructions", len(res.Code))}
	if werr := asm.WriteFile(e.listingPath, res.Code); werr != nil {
		lines = append(lines, "listing not saved: "+werr.Error())
	} else {
		lines = append(lines, "listing -> "+e.listingPath)
	}
	lines = append(lines, strings.TrimSuffix(asm.Format(res.Code), "\n"))

	if err != nil {
		lines = append(lines, errorLines(err)...)
	} else if res.HasValue {
		lines = append(lines, fmt.Sprintf("Result: %d", res.Value))
	} else {
		lines = append(lines, "Result: (empty stack)")
	}
	e.setOutput(append(lines, varLines(res.Vars)...)...)
}

func joinLines(lines []string) string { return strings.Join(lines, "\n") }
