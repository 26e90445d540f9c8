// Package session saves the state of a run to a zip archive and restores
// it, so a later run can continue from the same variable table.
//
// Archive layout:
//
//	meta.json    run id, mode, creation time
//	vars.json    bindings in first-assignment order
//	program.lst  instruction listing (compile mode only)
//	source.ml    program source
package session

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"minilang/pkg/asm"
	"minilang/pkg/symtab"
	"minilang/pkg/vm"
)

// Snapshot is everything a session archive holds.
type Snapshot struct {
	RunID   string
	Mode    string
	Created time.Time
	Vars    *symtab.Table
	Code    []vm.Instruction
	Source  string
}

// errEntryNotFound marks an archive entry that is absent, as opposed to
// one that is present but unreadable.
var errEntryNotFound = errors.New("zip entry not found")

type meta struct {
	RunID   string    `json:"run_id"`
	Mode    string    `json:"mode"`
	Created time.Time `json:"created"`
	Entries int       `json:"instructions"`
}

// SaveToBytes serialises s into an in-memory zip archive.
func SaveToBytes(s *Snapshot) ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	m := meta{RunID: s.RunID, Mode: s.Mode, Created: s.Created, Entries: len(s.Code)}
	metaJSON, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal meta: %w", err)
	}
	if err := writeZipEntry(zw, "meta.json", metaJSON); err != nil {
		return nil, err
	}

	vars := s.Vars
	if vars == nil {
		vars = symtab.New()
	}
	varsJSON, err := json.MarshalIndent(vars, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal vars: %w", err)
	}
	if err := writeZipEntry(zw, "vars.json", varsJSON); err != nil {
		return nil, err
	}

	if len(s.Code) > 0 {
		if err := writeZipEntry(zw, "program.lst", []byte(asm.Format(s.Code))); err != nil {
			return nil, err
		}
	}
	if err := writeZipEntry(zw, "source.ml", []byte(s.Source)); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

// RestoreFromBytes reads an archive written by SaveToBytes. meta.json and
// vars.json are required; the listing and source are optional.
func RestoreFromBytes(data []byte) (*Snapshot, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	fileMap := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		fileMap[f.Name] = f
	}

	metaJSON, err := readZipEntry(fileMap, "meta.json")
	if err != nil {
		return nil, err
	}
	var m meta
	if err := json.Unmarshal(metaJSON, &m); err != nil {
		return nil, fmt.Errorf("unmarshal meta: %w", err)
	}

	varsJSON, err := readZipEntry(fileMap, "vars.json")
	if err != nil {
		return nil, err
	}
	vars := symtab.New()
	if err := json.Unmarshal(varsJSON, vars); err != nil {
		return nil, fmt.Errorf("unmarshal vars: %w", err)
	}

	s := &Snapshot{RunID: m.RunID, Mode: m.Mode, Created: m.Created, Vars: vars}

	lst, err := readZipEntry(fileMap, "program.lst")
	switch {
	case err == nil:
		code, err := asm.Parse(string(lst))
		if err != nil {
			return nil, fmt.Errorf("program.lst: %w", err)
		}
		s.Code = code
	case !errors.Is(err, errEntryNotFound):
		return nil, err
	}

	src, err := readZipEntry(fileMap, "source.ml")
	switch {
	case err == nil:
		s.Source = string(src)
	case !errors.Is(err, errEntryNotFound):
		return nil, err
	}
	return s, nil
}

func SaveFile(path string, s *Snapshot) error {
	data, err := SaveToBytes(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return RestoreFromBytes(data)
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %q: %w", name, err)
	}
	_, err = w.Write(data)
	return err
}

func readZipEntry(fileMap map[string]*zip.File, name string) ([]byte, error) {
	f, ok := fileMap[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errEntryNotFound, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open zip entry %q: %w", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read zip entry %q: %w", name, err)
	}
	return data, nil
}
