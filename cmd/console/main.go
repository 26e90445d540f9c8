package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"minilang/pkg/asm"
	"minilang/pkg/config"
	"minilang/pkg/fault"
	"minilang/pkg/pipeline"
	"minilang/pkg/report"
	"minilang/pkg/symtab"
	"minilang/pkg/utils"
	"minilang/pkg/vm"
)

const help = `statements end with ';' or a closing '}'
:mode interpret|compile   switch execution path
:vars                     show variables
:listing                  show the last compiled listing
:reset                    forget all variables
:quit                     leave
`

// console runs statements one at a time against a table that lives for
// the whole session.
type console struct {
	out     io.Writer
	vars    *symtab.Table
	mode    config.Mode
	pending strings.Builder
	last    []vm.Instruction
}

func newConsole(out io.Writer) *console {
	return &console{out: out, vars: symtab.New(), mode: config.ModeInterpret}
}

// complete reports whether src ends a statement with braces balanced.
func complete(src string) bool {
	depth := strings.Count(src, "{") - strings.Count(src, "}")
	trimmed := strings.TrimSpace(src)
	return depth <= 0 && (strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, "}"))
}

// feed handles one input line and returns false when the session ends.
func (c *console) feed(line string) bool {
	if c.pending.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
		return c.command(strings.Fields(strings.TrimSpace(line)))
	}
	c.pending.WriteString(line)
	c.pending.WriteByte('\n')
	if !complete(c.pending.String()) {
		return true
	}
	src := c.pending.String()
	c.pending.Reset()
	c.exec(src)
	return true
}

func (c *console) command(fields []string) bool {
	switch fields[0] {
	case ":quit", ":q":
		return false
	case ":vars":
		fmt.Fprintln(c.out, c.vars)
	case ":listing":
		fmt.Fprint(c.out, asm.Format(c.last))
	case ":reset":
		c.vars = symtab.New()
	case ":mode":
		if len(fields) != 2 || !config.Mode(fields[1]).IsValid() {
			fmt.Fprintln(c.out, "usage: :mode interpret|compile")
			break
		}
		c.mode = config.Mode(fields[1])
	default:
		fmt.Fprint(c.out, help)
	}
	return true
}

func (c *console) exec(src string) {
	if c.mode == config.ModeInterpret {
		if _, err := pipeline.InterpretWith(src, c.vars); err != nil {
			c.report(err)
			return
		}
		fmt.Fprintln(c.out, c.vars)
		return
	}

	res, err := pipeline.CompileAndRunWith(src, c.vars)
	if res != nil {
		c.last = res.Code
	}
	if err != nil {
		c.report(err)
		return
	}
	if res.HasValue {
		fmt.Fprintf(c.out, "=> %d\n", res.Value)
	}
	fmt.Fprintln(c.out, c.vars)
}

func (c *console) report(err error) {
	fmt.Fprintf(c.out, "%s error: %v\n", fault.KindOf(err), err)
}

func (c *console) loop(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if !c.feed(scanner.Text()) {
			return
		}
	}
}

// installLogger makes the default configuration's logger the slog default
// and returns a func that restores the previous one.
func installLogger(w io.Writer) func() {
	logger, err := config.Default().Logger(w)
	if err != nil {
		return func() {}
	}
	prev := slog.Default()
	slog.SetDefault(logger)
	return func() { slog.SetDefault(prev) }
}

func main() {
	defer installLogger(os.Stderr)()
	c := newConsole(os.Stdout)

	if len(os.Args) > 1 {
		fullPath, _, err := utils.GetPathInfo(os.Args[1])
		if err != nil {
			log.Fatalf("Bad path: %v", err)
		}
		sourceBytes, err := os.ReadFile(fullPath)
		if err != nil {
			log.Fatalf("Failed to read source file: %v", err)
		}
		fmt.Println("Loaded", fullPath)
		c.exec(string(sourceBytes))
	}

	fmt.Print(help)
	c.loop(os.Stdin)
	fmt.Println(report.Vars(c.vars))
}
