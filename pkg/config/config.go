// Package config loads run settings for the minilang command-line tools
// from YAML and builds the slog logger they describe.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"minilang/pkg/asm"
	"minilang/pkg/vm"
)

// Mode selects the execution path.
type Mode string

const (
	ModeInterpret Mode = "interpret"
	ModeCompile   Mode = "compile"
)

// IsValid reports whether the mode is recognised.
func (m Mode) IsValid() bool {
	switch m {
	case ModeInterpret, ModeCompile:
		return true
	default:
		return false
	}
}

// Log controls the default logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File is where records go; empty means stderr.
	File string `yaml:"file"`
}

// Show selects which reports the CLI prints after a run.
type Show struct {
	Tokens  bool `yaml:"tokens"`
	AST     bool `yaml:"ast"`
	Listing bool `yaml:"listing"`
	Vars    bool `yaml:"vars"`
}

// Config is the decoded configuration file.
type Config struct {
	Mode    Mode   `yaml:"mode"`
	Listing string `yaml:"listing"`
	Log     Log    `yaml:"log"`
	Show    Show   `yaml:"show"`
	// Trace logs every VM step at vm.LevelTrace.
	Trace bool `yaml:"trace"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Mode:    ModeInterpret,
		Listing: asm.DefaultPath,
		Log:     Log{Level: "warn", Format: "text"},
		Show:    Show{Vars: true},
	}
}

// ValidationError aggregates configuration problems.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load reads path over the defaults. Fields absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses YAML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs ValidationError
	if !c.Mode.IsValid() {
		errs.Issues = append(errs.Issues, fmt.Sprintf("mode: unsupported value %q (want interpret or compile)", c.Mode))
	}
	if c.Listing == "" {
		errs.Issues = append(errs.Issues, "listing: must not be empty")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs.Issues = append(errs.Issues, "log.level: "+err.Error())
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("log.format: unsupported value %q (want text or json)", c.Log.Format))
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// ParseLevel maps a level name to its slog.Level. "trace" is vm.LevelTrace.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "trace":
		return vm.LevelTrace, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown level %q", name)
}

// Logger builds a logger writing to w in the configured format. When
// Trace is set the level is lowered to vm.LevelTrace if it is above it.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	if c.Trace && level > vm.LevelTrace {
		level = vm.LevelTrace
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch c.Log.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), nil
}
