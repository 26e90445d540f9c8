//go:build !js

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/tebeka/atexit"

	"minilang/pkg/asm"
	"minilang/pkg/compiler"
	"minilang/pkg/config"
	"minilang/pkg/fault"
	"minilang/pkg/pipeline"
	"minilang/pkg/report"
	"minilang/pkg/session"
	"minilang/pkg/symtab"
	"minilang/pkg/vm"
)

func main() {
	atexit.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	inPath      string
	outPath     string
	mode        string
	runListing  string
	configPath  string
	trace       bool
	steps       bool
	saveSession string
	resume      string
}

func parseFlags(args []string, stderr io.Writer) (*options, *flag.FlagSet, error) {
	fs := flag.NewFlagSet("minilang", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{}
	fs.StringVar(&o.inPath, "in", "", "source file to run")
	fs.StringVar(&o.outPath, "out", "", "listing path for compile mode (default from config: output.bytecode)")
	fs.StringVar(&o.mode, "mode", "", "interpret or compile (default from config: interpret)")
	fs.StringVar(&o.runListing, "run-listing", "", "run an existing listing on the virtual machine")
	fs.StringVar(&o.configPath, "config", "", "YAML configuration file")
	fs.BoolVar(&o.trace, "trace", false, "log every VM step")
	fs.BoolVar(&o.steps, "steps", false, "print a table of every VM step")
	fs.StringVar(&o.saveSession, "save-session", "", "write variables, listing and source to a session archive")
	fs.StringVar(&o.resume, "resume", "", "start from the variables of a session archive")

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	return o, fs, nil
}

// loadConfig applies explicitly set flags over the config file.
func loadConfig(o *options) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}
	if o.mode != "" {
		cfg.Mode = config.Mode(o.mode)
	}
	if o.outPath != "" {
		cfg.Listing = o.outPath
	}
	if o.trace {
		cfg.Trace = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging installs the configured logger as the slog default. The
// returned func restores the previous default and closes any log file.
func setupLogging(cfg *config.Config, stderr io.Writer) (func(), error) {
	w := stderr
	var f *os.File
	if cfg.Log.File != "" {
		var err error
		if f, err = os.Create(cfg.Log.File); err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
	}
	logger, err := cfg.Logger(w)
	if err != nil {
		if f != nil {
			f.Close()
		}
		return nil, err
	}
	prev := slog.Default()
	slog.SetDefault(logger)
	return func() {
		slog.SetDefault(prev)
		if f != nil {
			f.Close()
		}
	}, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if o.inPath != "" && o.runListing != "" {
		fmt.Fprintln(stderr, "use either -in or -run-listing, not both")
		return 2
	}
	if o.inPath == "" && o.runListing == "" {
		fmt.Fprintln(stderr, "nothing to do: provide -in <source> or -run-listing <listing>")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(o)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	cleanup, err := setupLogging(cfg, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer cleanup()

	vars := symtab.New()
	if o.resume != "" {
		snap, err := session.LoadFile(o.resume)
		if err != nil {
			fmt.Fprintf(stderr, "failed to resume session %q: %v\n", o.resume, err)
			return 1
		}
		vars = snap.Vars
		slog.Info("resumed session", slog.String("from", snap.RunID), slog.Int("vars", vars.Len()))
	}

	var steps *report.StepTable
	if o.steps {
		steps = report.NewStepTable()
	}

	snap := &session.Snapshot{Mode: string(cfg.Mode), Created: time.Now().UTC(), Vars: vars}
	var runErr error
	switch {
	case o.runListing != "":
		snap.Mode = string(config.ModeCompile)
		runErr = runListing(o.runListing, cfg, vars, steps, snap, stdout)
	default:
		src, err := os.ReadFile(o.inPath)
		if err != nil {
			fmt.Fprintf(stderr, "failed to read input file %q: %v\n", o.inPath, err)
			return 1
		}
		snap.Source = string(src)
		runErr = runSource(string(src), cfg, vars, steps, snap, stdout)
	}

	if steps != nil && steps.Steps > 0 {
		fmt.Fprintln(stdout, steps.Render())
	}
	if cfg.Show.Vars {
		fmt.Fprintln(stdout, report.Vars(vars))
	}

	if runErr != nil {
		fmt.Fprintf(stderr, "%s error: %v\n", fault.KindOf(runErr), runErr)
		return 1
	}

	if o.saveSession != "" {
		if err := session.SaveFile(o.saveSession, snap); err != nil {
			fmt.Fprintf(stderr, "failed to save session %q: %v\n", o.saveSession, err)
			return 1
		}
		fmt.Fprintf(stdout, "session saved -> %s\n", o.saveSession)
	}
	return 0
}

func showFrontEnd(src string, cfg *config.Config, stdout io.Writer) {
	if !cfg.Show.Tokens && !cfg.Show.AST {
		return
	}
	prog, err := compiler.Front(src)
	if err != nil {
		// reported by the run itself
		return
	}
	if cfg.Show.Tokens {
		fmt.Fprintln(stdout, report.Tokens(prog.Tokens))
	}
	if cfg.Show.AST {
		fmt.Fprintln(stdout, prog.AST)
	}
}

func runSource(src string, cfg *config.Config, vars *symtab.Table, steps *report.StepTable, snap *session.Snapshot, stdout io.Writer) error {
	showFrontEnd(src, cfg, stdout)

	if cfg.Mode == config.ModeInterpret {
		snap.RunID = pipeline.NewRunID()
		_, err := pipeline.InterpretWith(src, vars)
		return err
	}

	prog, err := compiler.Compile(src)
	if err != nil {
		return err
	}
	if err := asm.WriteFile(cfg.Listing, prog.Code); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "compiled %d instructions -> %s\n", len(prog.Code), cfg.Listing)
	return execute(prog.Code, cfg, vars, steps, snap, stdout)
}

func runListing(path string, cfg *config.Config, vars *symtab.Table, steps *report.StepTable, snap *session.Snapshot, stdout io.Writer) error {
	code, err := asm.ReadFile(path)
	if err != nil {
		return err
	}
	return execute(code, cfg, vars, steps, snap, stdout)
}

func execute(code []vm.Instruction, cfg *config.Config, vars *symtab.Table, steps *report.StepTable, snap *session.Snapshot, stdout io.Writer) error {
	if cfg.Show.Listing {
		fmt.Fprintln(stdout, report.Listing(code))
	}
	snap.Code = code

	var obs vm.Observer
	if steps != nil {
		obs = steps
	}
	res, err := pipeline.RunListingWith(code, vars, obs)
	if res != nil {
		snap.RunID = res.RunID
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, report.Result(res.RunID, res.Value, res.HasValue))
	return nil
}
