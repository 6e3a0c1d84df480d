// Package workbench handles workbench.toml files: a declarative list of
// circuit programs to decode and input/output checks to run against them.
package workbench

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Workbench represents a workbench.toml file.
type Workbench struct {
	Programs []Program `toml:"program"`
	Checks   []Check   `toml:"check"`

	// Dir is the directory containing the workbench.toml file (set at load
	// time); program file paths resolve relative to it.
	Dir string `toml:"-"`
}

// Program names one bytecode stream to decode, either inline as hex or
// from a file.
type Program struct {
	Name string `toml:"name"`
	File string `toml:"file"`
	Hex  string `toml:"hex"`
}

// Check simulates one circuit and compares its outputs. Inputs and Outputs
// are wire vectors, one character per slot: '0', '1' or '?'.
type Check struct {
	Circuit int    `toml:"circuit"`
	Inputs  string `toml:"inputs"`
	Outputs string `toml:"outputs"`
}

// Load parses a workbench.toml file from the given directory.
func Load(dir string) (*Workbench, error) {
	path := filepath.Join(dir, "workbench.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var w Workbench
	if err := toml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	w.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	for i, p := range w.Programs {
		if (p.File == "") == (p.Hex == "") {
			return nil, fmt.Errorf("%s: program %d must set exactly one of file or hex", path, i)
		}
	}

	return &w, nil
}

// FindAndLoad walks up from startDir to find a workbench.toml file, then
// loads and returns it. Returns nil if no workbench is found.
func FindAndLoad(startDir string) (*Workbench, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "workbench.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Bytes returns the bytecode of a program entry, reading its file relative
// to the workbench directory or decoding its inline hex.
func (w *Workbench) Bytes(p Program) ([]byte, error) {
	if p.File != "" {
		path := p.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(w.Dir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("program %q: %w", p.Name, err)
		}
		return data, nil
	}
	data, err := hex.DecodeString(strings.Map(dropSpace, p.Hex))
	if err != nil {
		return nil, fmt.Errorf("program %q: invalid hex: %w", p.Name, err)
	}
	return data, nil
}

func dropSpace(r rune) rune {
	if r == ' ' || r == '\t' || r == '\n' {
		return -1
	}
	return r
}
